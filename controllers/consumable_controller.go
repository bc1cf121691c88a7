// controllers/consumable_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"consumable_stock_ledger/app"
	"consumable_stock_ledger/db"
	"consumable_stock_ledger/models"

	"github.com/gin-gonic/gin"
)

type ConsumableController struct{ *Srv }

func NewConsumableController(s *Srv) *ConsumableController { return &ConsumableController{Srv: s} }

// POST /api/consumables
func (cc *ConsumableController) Create(c *gin.Context) {
	var in struct {
		Name             string         `json:"name" binding:"required"`
		CategoryCode     string         `json:"categoryCode" binding:"required"`
		CompanyID        string         `json:"companyId" binding:"required"`
		Unit             string         `json:"unit" binding:"required"`
		Keeper           string         `json:"keeper" binding:"required"`
		Location         string         `json:"location" binding:"required"`
		Description      string         `json:"description"`
		Metadata         models.JSONMap `json:"metadata"`
		Quantity         int            `json:"quantity"`
		ReservedQuantity int            `json:"reservedQuantity"`
		SafetyStock      int            `json:"safetyStock"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	cons, ev, err := cc.Repo.CreateConsumable(c.Request.Context(), db.CreateConsumableInput{
		Name:             in.Name,
		CategoryCode:     in.CategoryCode,
		CompanyID:        in.CompanyID,
		Unit:             in.Unit,
		Keeper:           in.Keeper,
		Location:         in.Location,
		Description:      in.Description,
		Metadata:         in.Metadata,
		Quantity:         in.Quantity,
		ReservedQuantity: in.ReservedQuantity,
		SafetyStock:      in.SafetyStock,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	cc.propagate(c.Request.Context(), ev)
	c.JSON(http.StatusCreated, cons)
}

// GET /api/consumables?q=&categoryCode=&companyId=&status=&page=&size=
func (cc *ConsumableController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := cc.Repo.ListConsumables(c.Request.Context(), db.ConsumableQuery{
		Q:            c.Query("q"),
		CategoryCode: c.Query("categoryCode"),
		CompanyID:    c.Query("companyId"),
		Status:       c.Query("status"),
		Page:         page,
		Size:         size,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "items": res.Items})
}

// GET /api/consumables/:id
func (cc *ConsumableController) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}
	cons, err := cc.Repo.FindConsumableByID(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cons)
}

// PATCH /api/consumables/:id 头字段 + 归档开关；计数器只能走操作
func (cc *ConsumableController) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}

	var in struct {
		Name         *string        `json:"name"`
		CategoryCode *string        `json:"categoryCode"`
		CompanyID    *string        `json:"companyId"`
		Unit         *string        `json:"unit"`
		Keeper       *string        `json:"keeper"`
		Location     *string        `json:"location"`
		Description  *string        `json:"description"`
		Metadata     models.JSONMap `json:"metadata"`
		SafetyStock  *int           `json:"safetyStock"`
		Archived     *bool          `json:"archived"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	cons, ev, err := cc.Repo.UpdateConsumableHeader(c.Request.Context(), id, db.UpdateConsumableInput{
		Name:         in.Name,
		CategoryCode: in.CategoryCode,
		CompanyID:    in.CompanyID,
		Unit:         in.Unit,
		Keeper:       in.Keeper,
		Location:     in.Location,
		Description:  in.Description,
		Metadata:     in.Metadata,
		SafetyStock:  in.SafetyStock,
		Archived:     in.Archived,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	cc.propagate(c.Request.Context(), ev)
	c.JSON(http.StatusOK, cons)
}

// DELETE /api/consumables/:id
func (cc *ConsumableController) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}
	ev, err := cc.Repo.DeleteConsumable(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	cc.propagate(c.Request.Context(), ev)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
