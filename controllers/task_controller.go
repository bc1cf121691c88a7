// controllers/task_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"consumable_stock_ledger/app"
	"consumable_stock_ledger/db"
	"consumable_stock_ledger/models"

	"github.com/gin-gonic/gin"
)

type TaskController struct{ *Srv }

func NewTaskController(s *Srv) *TaskController { return &TaskController{Srv: s} }

// POST /api/inventory-tasks
func (tc *TaskController) Create(c *gin.Context) {
	var in struct {
		Name          string   `json:"name" binding:"required"`
		Owner         string   `json:"owner"`
		Description   string   `json:"description"`
		CategoryCodes []string `json:"categoryCodes"`
		Keeper        string   `json:"keeper"`
		Draft         bool     `json:"draft"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	task, err := tc.Repo.CreateTask(c.Request.Context(), db.CreateTaskInput{
		Name:          in.Name,
		Owner:         in.Owner,
		Description:   in.Description,
		CategoryCodes: in.CategoryCodes,
		Keeper:        in.Keeper,
		Draft:         in.Draft,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GET /api/inventory-tasks?status=&page=&size=
func (tc *TaskController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := tc.Repo.ListTasks(c.Request.Context(), db.TaskQuery{
		Status: c.Query("status"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "items": res.Items})
}

// GET /api/inventory-tasks/:id 含条目与进度
func (tc *TaskController) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing task id"})
		return
	}
	task, err := tc.Repo.FindTaskByID(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}

	recorded := 0
	for i := range task.Entries {
		if task.Entries[i].Status == models.EntryRecorded {
			recorded++
		}
	}
	c.JSON(http.StatusOK, app.H{
		"task": task,
		"progress": app.H{
			"entries":  len(task.Entries),
			"recorded": recorded,
		},
	})
}

// POST /api/inventory-tasks/:id/entries 录入实际计数
func (tc *TaskController) RecordEntries(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing task id"})
		return
	}

	var in struct {
		Entries []struct {
			EntryID        string  `json:"entryId" binding:"required"`
			ActualQuantity *int    `json:"actualQuantity"`
			ActualReserved *int    `json:"actualReserved"`
			Note           *string `json:"note"`
		} `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	recs := make([]db.EntryRecord, len(in.Entries))
	for i, e := range in.Entries {
		recs[i] = db.EntryRecord{
			EntryID:        e.EntryID,
			ActualQuantity: e.ActualQuantity,
			ActualReserved: e.ActualReserved,
			Note:           e.Note,
		}
	}

	task, err := tc.Repo.RecordEntries(c.Request.Context(), id, recs)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/inventory-tasks/:id/start draft → in-progress
func (tc *TaskController) Start(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing task id"})
		return
	}
	task, err := tc.Repo.StartTask(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /api/inventory-tasks/:id/complete 人工收尾
func (tc *TaskController) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing task id"})
		return
	}
	task, err := tc.Repo.CompleteTask(c.Request.Context(), id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
