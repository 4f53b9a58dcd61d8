package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	KeyLoginRequired      = "notice.login_required"
	KeyLoginAgain         = "notice.login_again"
	KeyListFailed         = "notice.list_failed"
	KeyListUnknownError   = "notice.list_unknown_error"
	KeySaveFailed         = "notice.save_failed"
	KeyDeleteFailed       = "notice.delete_failed"
	KeyUnknownError       = "notice.unknown_error"
	KeyDeleteConfirm      = "notice.delete_confirm"
	KeyDeleteIrreversible = "notice.delete_irreversible"
	KeyFieldRequired      = "field.required"
	KeyDefaultUnit        = "product.default_unit"

	// FieldLabelPrefix prefixes the per-field label keys, e.g. "field.label.title".
	FieldLabelPrefix = "field.label."
)

func init() {
	en := language.English
	message.SetString(en, KeyLoginRequired, "Please log in first")
	message.SetString(en, KeyLoginAgain, "Please log in again")
	message.SetString(en, KeyListFailed, "Failed to load products")
	message.SetString(en, KeyListUnknownError, "An unknown error occurred")
	message.SetString(en, KeySaveFailed, "Failed to save")
	message.SetString(en, KeyDeleteFailed, "Failed to delete")
	message.SetString(en, KeyUnknownError, "Unknown error")
	message.SetString(en, KeyDeleteConfirm, "Are you sure you want to delete?")
	message.SetString(en, KeyDeleteIrreversible, "This cannot be undone!")
	message.SetString(en, KeyFieldRequired, "%s is required")
	message.SetString(en, KeyDefaultUnit, "pcs")

	zh := TraditionalChinese
	message.SetString(zh, KeyLoginRequired, "請先登入")
	message.SetString(zh, KeyLoginAgain, "請重新登入")
	message.SetString(zh, KeyListFailed, "取得產品列表失敗")
	message.SetString(zh, KeyListUnknownError, "發生未知錯誤")
	message.SetString(zh, KeySaveFailed, "儲存失敗")
	message.SetString(zh, KeyDeleteFailed, "刪除失敗")
	message.SetString(zh, KeyUnknownError, "未知錯誤")
	message.SetString(zh, KeyDeleteConfirm, "確定要刪除嗎?")
	message.SetString(zh, KeyDeleteIrreversible, "此操作無法復原！")
	message.SetString(zh, KeyFieldRequired, "%s 為必填")
	message.SetString(zh, KeyDefaultUnit, "個")

	zhLabels := map[string]string{
		"title":        "標題",
		"category":     "分類",
		"origin_price": "原價",
		"price":        "售價",
		"unit":         "單位",
		"description":  "產品描述",
		"content":      "說明內容",
		"is_enabled":   "是否啟用",
		"imageUrl":     "主圖網址",
	}
	for name, label := range zhLabels {
		message.SetString(zh, FieldLabelPrefix+name, label)
	}
}
