package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
	"github.com/mamadbah2/hivetool/internal/server/views"
	"github.com/mamadbah2/hivetool/internal/server/web"
	"github.com/mamadbah2/hivetool/internal/service/records"
)

// Routable is a handler group that registers its own routes.
type Routable interface {
	Register(r gin.IRoutes, gate *web.Gate)
}

// RecordHandler serves the list, form and mutation routes of one kind.
// U is the kind's typed update request.
type RecordHandler[T any, PT models.Record[T], U models.Update] struct {
	svc    *records.Service[T, PT]
	logger *zap.Logger
}

func NewRecordHandler[T any, PT models.Record[T], U models.Update](svc *records.Service[T, PT], logger *zap.Logger) *RecordHandler[T, PT, U] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordHandler[T, PT, U]{svc: svc, logger: logger}
}

func (h *RecordHandler[T, PT, U]) Register(r gin.IRoutes, gate *web.Gate) {
	info := h.svc.Info()
	r.GET(info.ListPath, gate.Protected(h.List))
	r.GET(info.FormPath, gate.Protected(h.NewForm))
	r.POST("/new-"+info.Slug, gate.Protected(h.Create))
	r.GET("/"+info.Slug+"/edit/:id", gate.Protected(h.EditForm))
	r.PUT("/"+info.Slug+"/update/:id", gate.Protected(h.Update))
	r.DELETE("/"+info.Slug+"/delete/:id", gate.Protected(h.Delete))
}

func (h *RecordHandler[T, PT, U]) List(c *web.Context) {
	info := h.svc.Info()
	list, err := h.svc.List(c.Request.Context(), c.UserID())
	if err != nil {
		h.logger.Error("failed to list records", zap.Error(err))
		c.Fail(http.StatusInternalServerError, "Could not load records.")
		return
	}

	rows := make([]models.Owned, 0, len(list))
	for _, rec := range list {
		rows = append(rows, rec)
	}
	c.Page(http.StatusOK, views.List, gin.H{
		"title":   info.ListTitle,
		"info":    info,
		"records": rows,
	})
}

func (h *RecordHandler[T, PT, U]) NewForm(c *web.Context) {
	info := h.svc.Info()
	c.Page(http.StatusOK, views.Form, gin.H{
		"title":  info.FormTitle,
		"info":   info,
		"action": "/new-" + info.Slug,
		"method": http.MethodPost,
		"values": map[string]string{},
	})
}

func (h *RecordHandler[T, PT, U]) Create(c *web.Context) {
	info := h.svc.Info()
	rec := h.svc.New()
	if err := bindForm(c, info, rec); err != nil {
		h.logger.Warn("invalid record submission", zap.Error(err))
		c.Fail(http.StatusBadRequest, "Your "+info.Slug+" could not be saved. Error: "+err.Error())
		return
	}

	if err := h.svc.Create(c.Request.Context(), c.UserID(), rec); err != nil {
		h.logger.Error("failed to create record", zap.Error(err))
		c.Fail(http.StatusInternalServerError, "Your "+info.Slug+" could not be saved.")
		return
	}
	c.RedirectTo(info.ListPath)
}

func (h *RecordHandler[T, PT, U]) EditForm(c *web.Context) {
	info := h.svc.Info()
	id, ok := h.recordID(c)
	if !ok {
		c.RedirectTo(info.ListPath)
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), c.UserID(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.logger.Warn("edit of missing record", zap.String("id", id.Hex()))
		c.RedirectTo(info.ListPath)
		return
	}
	if err != nil {
		h.logger.Error("failed to load record", zap.Error(err))
		c.Fail(http.StatusInternalServerError, "Could not load record.")
		return
	}

	c.Page(http.StatusOK, views.Form, gin.H{
		"title":  info.EditTitle,
		"info":   info,
		"action": "/" + info.Slug + "/update/" + id.Hex(),
		"method": http.MethodPut,
		"values": rec.Values(),
		"date":   rec.Date().UTC().Format(models.DateLayout),
	})
}

func (h *RecordHandler[T, PT, U]) Update(c *web.Context) {
	info := h.svc.Info()
	var req U
	if err := bindForm(c, info, &req); err != nil {
		h.logger.Warn("invalid record update", zap.Error(err))
		c.Fail(http.StatusBadRequest, "Your "+info.Slug+" could not be updated. Error: "+err.Error())
		return
	}

	id, ok := h.recordID(c)
	if !ok {
		c.RedirectTo(info.ListPath)
		return
	}

	err := h.svc.Update(c.Request.Context(), c.UserID(), id, req)
	switch {
	case errors.Is(err, records.ErrInvalidDate):
		c.Fail(http.StatusBadRequest, "Your "+info.Slug+" could not be updated. Error: "+err.Error())
		return
	case errors.Is(err, repository.ErrNotFound):
		h.logger.Warn("update of missing record", zap.String("id", id.Hex()))
	case err != nil:
		h.logger.Error("failed to update record", zap.Error(err))
		c.Fail(http.StatusInternalServerError, "Your "+info.Slug+" could not be updated.")
		return
	}
	c.RedirectTo(info.ListPath)
}

func (h *RecordHandler[T, PT, U]) Delete(c *web.Context) {
	info := h.svc.Info()
	id, ok := h.recordID(c)
	if !ok {
		c.RedirectTo(info.ListPath)
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.UserID(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.logger.Warn("delete of missing record", zap.String("id", id.Hex()))
	case err != nil:
		h.logger.Error("failed to delete record", zap.Error(err))
		c.Fail(http.StatusInternalServerError, "Your "+info.Slug+" could not be deleted.")
		return
	}
	c.RedirectTo(info.ListPath)
}

// bindForm binds the submitted form into dst. Number fields are not tagged
// required since zero is a valid count, so their presence is checked here.
func bindForm(c *web.Context, info models.KindInfo, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		return err
	}
	for _, f := range info.Fields {
		if f.Input != models.InputNumber {
			continue
		}
		if strings.TrimSpace(c.PostForm(f.Name)) == "" {
			return fmt.Errorf("field %s is required", f.Name)
		}
	}
	return nil
}

// recordID parses the :id parameter. Malformed ids are handled as missing records.
func (h *RecordHandler[T, PT, U]) recordID(c *web.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		h.logger.Warn("malformed record id", zap.String("id", c.Param("id")))
		return primitive.NilObjectID, false
	}
	return id, true
}
