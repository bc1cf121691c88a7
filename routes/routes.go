package routes

import (
	"consumable_stock_ledger/app"
	"consumable_stock_ledger/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	consumableCtl := controllers.NewConsumableController(s)
	operationCtl := controllers.NewOperationController(s)
	alertCtl := controllers.NewAlertController(s)
	taskCtl := controllers.NewTaskController(s)

	actorMW := app.ActorFromHeader()

	// ------------------------------
	// 耗材档案
	// ------------------------------
	consumables := r.Group("/api/consumables", actorMW)
	{
		consumables.POST("", consumableCtl.Create)
		consumables.GET("", consumableCtl.List) // ?q=&categoryCode=&companyId=&status=&page=&size=
		consumables.GET("/:id", consumableCtl.Get)
		consumables.PATCH("/:id", consumableCtl.Update)
		consumables.DELETE("/:id", consumableCtl.Delete)
	}

	// ------------------------------
	// 操作账本 + 审计查询
	// ------------------------------
	operations := r.Group("/api/operations", actorMW)
	{
		operations.POST("", operationCtl.Create)
		operations.GET("", operationCtl.List) // ?type=&status=&q=&consumableId=&keeper=&actor=&from=&to=
		operations.GET("/:id", operationCtl.Get)
		operations.POST("/:id/settle", operationCtl.Settle)
		operations.POST("/:id/cancel", operationCtl.Cancel)
	}

	// ------------------------------
	// 库存告警
	// ------------------------------
	alerts := r.Group("/api/alerts", actorMW)
	{
		alerts.GET("", alertCtl.List) // ?consumableId=&status=&level=
		alerts.POST("/:id/resolve", alertCtl.Resolve)
	}

	// ------------------------------
	// 盘点任务
	// ------------------------------
	tasks := r.Group("/api/inventory-tasks", actorMW)
	{
		tasks.POST("", taskCtl.Create)
		tasks.GET("", taskCtl.List) // ?status=&page=&size=
		tasks.GET("/:id", taskCtl.Get)
		tasks.POST("/:id/entries", taskCtl.RecordEntries)
		tasks.POST("/:id/start", taskCtl.Start)
		tasks.POST("/:id/complete", taskCtl.Complete)
	}
}
