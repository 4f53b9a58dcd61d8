package view

import "github.com/znsio/specmatic-product-admin-go/internal/models"

type Mode string

const (
	ModeNone Mode = ""
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
	ModeNew  Mode = "new"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is the last user-facing message produced by an operation.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Title string      `json:"title,omitempty"`
	Text  string      `json:"text,omitempty"`
}

type DeletePhase string

const (
	PhaseAwaitingConfirmation DeletePhase = "pending_confirmation"
	PhaseRequesting           DeletePhase = "requesting"
)

// PendingDelete is a removal waiting for the admin to confirm it.
type PendingDelete struct {
	ID     string      `json:"id"`
	Phase  DeletePhase `json:"phase"`
	Prompt string      `json:"prompt"`
	Detail string      `json:"detail"`
}

// FieldErrors maps a product field name to its validation message.
type FieldErrors map[string]string

// State is a point-in-time copy of the view, safe to serialise.
type State struct {
	Authorized    bool             `json:"authorized"`
	Products      []models.Product `json:"products"`
	Working       *models.Product  `json:"working"`
	Mode          Mode             `json:"mode"`
	EditMode      bool             `json:"editMode"`
	Errors        FieldErrors      `json:"errors"`
	PendingDelete *PendingDelete   `json:"pendingDelete"`
	Notice        *Notice          `json:"notice"`
}
