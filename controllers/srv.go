// controllers/srv.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"consumable_stock_ledger/app"
	"consumable_stock_ledger/db"
	"consumable_stock_ledger/models"
	"consumable_stock_ledger/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Srv struct {
	Repo *db.Repo
	Sink notify.Sink
	Gate app.ApprovalGate
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo: db.NewRepo(a.DB),
		Sink: a.Sink,
		Gate: a.Gate,
	}
}

// propagate 本地事务已提交，这里只做尽力而为的外部推送
// 失败记日志，绝不影响已提交的状态
func (s *Srv) propagate(ctx context.Context, ev *db.AlertEvent) {
	if ev == nil {
		return
	}
	e := notify.Event{
		Kind:             ev.Kind,
		AlertID:          ev.Alert.ID,
		ConsumableID:     ev.Alert.ConsumableID,
		ConsumableName:   ev.Alert.ConsumableName,
		Keeper:           ev.Alert.Keeper,
		Level:            ev.Alert.Level,
		Message:          ev.Alert.Message,
		Quantity:         ev.Alert.Quantity,
		ReservedQuantity: ev.Alert.ReservedQuantity,
	}

	if ev.Kind == db.EventResolved {
		if ev.Alert.ExternalRef != nil {
			e.ExternalRef = *ev.Alert.ExternalRef
		}
		if err := s.Sink.Withdraw(ctx, e); err != nil {
			log.Printf("notify withdraw failed (alert %s): %v", ev.Alert.ID, err)
		}
		return
	}

	handle, err := s.Sink.Push(ctx, e)
	if err != nil {
		log.Printf("notify push failed (alert %s): %v", ev.Alert.ID, err)
		return
	}
	if handle != "" {
		if err := s.Repo.BindAlertExternalRef(ctx, ev.Alert.ID, handle); err != nil {
			log.Printf("bind external ref failed (alert %s): %v", ev.Alert.ID, err)
		}
	}
}

// renderErr 统一错误→HTTP 映射：
// 校验 400，库存不足/状态冲突 409，未找到 404，其余 500
func renderErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, db.ErrStatusConflict):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrNoConsumablesMatched):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
