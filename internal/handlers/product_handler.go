package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/znsio/specmatic-product-admin-go/internal/i18n"
	"github.com/znsio/specmatic-product-admin-go/internal/middleware"
	"github.com/znsio/specmatic-product-admin-go/internal/view"
	"github.com/znsio/specmatic-product-admin-go/pkg/utils"
)

type ProductController struct {
	Sessions *view.Registry
	LoginURL string
}

type viewResponse struct {
	view.State
	EditableImages []string `json:"editableImages,omitempty"`
}

type setFieldRequest struct {
	Name  string `json:"name" binding:"required"`
	Value any    `json:"value"`
}

type setImageRequest struct {
	Value string `json:"value"`
}

func (pc *ProductController) Fields(c *gin.Context) {
	printer := i18n.Printer(middleware.GetLocale(c))
	c.JSON(http.StatusOK, gin.H{"fields": view.FieldDescriptors(printer)})
}

// ListProducts mounts the session on first use, otherwise re-syncs the list.
func (pc *ProductController) ListProducts(c *gin.Context) {
	v, ok := pc.mounted(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, nil)
}

func (pc *ProductController) GetState(c *gin.Context) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, nil)
}

func (pc *ProductController) OpenNew(c *gin.Context) {
	pc.open(c, view.ModeNew)
}

func (pc *ProductController) OpenView(c *gin.Context) {
	pc.open(c, view.ModeView)
}

func (pc *ProductController) OpenEdit(c *gin.Context) {
	pc.open(c, view.ModeEdit)
}

func (pc *ProductController) open(c *gin.Context, mode view.Mode) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, v.OpenByID(mode, c.Param("id")))
}

func (pc *ProductController) Cancel(c *gin.Context) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	v.Cancel()
	pc.respond(c, v, http.StatusOK, nil)
}

func (pc *ProductController) SetField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, v.SetField(req.Name, rawValue(req.Value)))
}

func (pc *ProductController) SetImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "image index must be a valid integer")
		return
	}

	var req setImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, v.SetImageAt(index, req.Value))
}

func (pc *ProductController) Save(c *gin.Context) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, v.Save(c.Request.Context()))
}

// RequestDelete only records the pending delete; confirmation is a separate call.
func (pc *ProductController) RequestDelete(c *gin.Context) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	_, err := v.RequestRemove(c.Param("id"))
	pc.respond(c, v, http.StatusAccepted, err)
}

func (pc *ProductController) ConfirmDelete(c *gin.Context) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, v.ConfirmRemove(c.Request.Context(), c.Param("id")))
}

func (pc *ProductController) CancelDelete(c *gin.Context) {
	v, ok := pc.session(c)
	if !ok {
		return
	}
	pc.respond(c, v, http.StatusOK, v.CancelRemove())
}

// session returns the caller's view, mounting it first when needed.
func (pc *ProductController) session(c *gin.Context) (*view.View, bool) {
	v := pc.Sessions.Acquire(middleware.GetToken(c), middleware.GetLocale(c))
	if _, err := v.Ensure(c.Request.Context(), middleware.GetToken(c)); err != nil {
		pc.respond(c, v, http.StatusOK, err)
		return nil, false
	}
	return v, true
}

// mounted is session plus a list re-sync when the view was already mounted.
func (pc *ProductController) mounted(c *gin.Context) (*view.View, bool) {
	token := middleware.GetToken(c)
	v := pc.Sessions.Acquire(token, middleware.GetLocale(c))

	didMount, err := v.Ensure(c.Request.Context(), token)
	if err == nil && !didMount {
		err = v.FetchAll(c.Request.Context())
	}
	if err != nil {
		pc.respond(c, v, http.StatusOK, err)
		return nil, false
	}
	return v, true
}

func (pc *ProductController) respond(c *gin.Context, v *view.View, status int, err error) {
	body := viewResponse{State: v.State(), EditableImages: v.EditableImages()}
	if err == nil {
		c.JSON(status, body)
		return
	}

	_ = c.Error(err)
	status = statusFor(err)
	extra := gin.H{"state": body}
	message := err.Error()
	if status == http.StatusUnauthorized {
		pc.Sessions.Drop(middleware.GetToken(c))
		extra["redirect"] = pc.LoginURL
		if body.Notice != nil && body.Notice.Text != "" {
			message = body.Notice.Text
		}
	}
	utils.ErrorResponseWith(c, status, message, extra)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, view.ErrNoSession), errors.Is(err, view.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, view.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, view.ErrNoWorkingCopy),
		errors.Is(err, view.ErrNotEditing),
		errors.Is(err, view.ErrNoPendingDelete):
		return http.StatusConflict
	case errors.Is(err, view.ErrUnknownField),
		errors.Is(err, view.ErrInvalidNumber),
		errors.Is(err, view.ErrImageIndex),
		errors.Is(err, view.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, view.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// rawValue renders a JSON form value the way an input element reports it.
func rawValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
