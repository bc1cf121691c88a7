// controllers/alert_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"consumable_stock_ledger/app"
	"consumable_stock_ledger/db"

	"github.com/gin-gonic/gin"
)

type AlertController struct{ *Srv }

func NewAlertController(s *Srv) *AlertController { return &AlertController{Srv: s} }

// GET /api/alerts?consumableId=&status=&level=&page=&size=
func (ac *AlertController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListAlerts(c.Request.Context(), db.AlertQuery{
		ConsumableID: c.Query("consumableId"),
		Status:       c.Query("status"),
		Level:        c.Query("level"),
		Page:         page,
		Size:         size,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "items": res.Items})
}

// POST /api/alerts/:id/resolve 手工确认；条件未消除时下次结算会开新告警
func (ac *AlertController) Resolve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing alert id"})
		return
	}
	alert, ev, err := ac.Repo.ResolveAlert(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	ac.propagate(c.Request.Context(), ev)
	c.JSON(http.StatusOK, alert)
}
