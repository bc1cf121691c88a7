// controllers/operation_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"consumable_stock_ledger/app"
	"consumable_stock_ledger/db"
	"consumable_stock_ledger/models"

	"github.com/gin-gonic/gin"
)

type OperationController struct{ *Srv }

func NewOperationController(s *Srv) *OperationController { return &OperationController{Srv: s} }

// POST /api/operations
func (oc *OperationController) Create(c *gin.Context) {
	var in struct {
		ConsumableID  string         `json:"consumableId" binding:"required"`
		Type          string         `json:"type" binding:"required"`
		QuantityDelta int            `json:"quantityDelta"`
		ReservedDelta int            `json:"reservedDelta"`
		Description   string         `json:"description"`
		Metadata      models.JSONMap `json:"metadata"`
		Status        string         `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	// 符号校验先行，不触库（见 models.ValidateOperation）
	if err := models.ValidateOperation(in.Type, in.QuantityDelta, in.ReservedDelta); err != nil {
		renderErr(c, err)
		return
	}

	op, ev, err := oc.Repo.CreateOperation(c.Request.Context(), db.CreateOperationInput{
		ConsumableID:  in.ConsumableID,
		Type:          in.Type,
		QuantityDelta: in.QuantityDelta,
		ReservedDelta: in.ReservedDelta,
		Actor:         app.Actor(c),
		Description:   in.Description,
		Metadata:      in.Metadata,
		Status:        in.Status,
	}, oc.Gate.Requires(in.Type))
	if err != nil {
		renderErr(c, err)
		return
	}
	oc.propagate(c.Request.Context(), ev)
	c.JSON(http.StatusCreated, op)
}

// POST /api/operations/:id/settle
func (oc *OperationController) Settle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing operation id"})
		return
	}
	op, ev, err := oc.Repo.SettleOperation(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	oc.propagate(c.Request.Context(), ev)
	c.JSON(http.StatusOK, op)
}

// POST /api/operations/:id/cancel
func (oc *OperationController) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing operation id"})
		return
	}
	op, err := oc.Repo.CancelOperation(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// GET /api/operations/:id
func (oc *OperationController) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing operation id"})
		return
	}
	op, err := oc.Repo.FindOperationByID(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// GET /api/operations 审计查询 + 汇总
// ?type=&status=&q=&consumableId=&keeper=&actor=&from=&to=&page=&size=
func (oc *OperationController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	q := db.OperationQuery{
		Types:        c.QueryArray("type"),
		Statuses:     c.QueryArray("status"),
		Q:            c.Query("q"),
		ConsumableID: c.Query("consumableId"),
		Keeper:       c.Query("keeper"),
		Actor:        c.Query("actor"),
		Page:         page,
		Size:         size,
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		q.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		// 含当天
		t = t.Add(24 * time.Hour)
		q.To = &t
	}

	res, err := oc.Repo.ListOperations(c.Request.Context(), q)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total":   res.Total,
		"items":   res.Items,
		"summary": res.Summary,
	})
}
