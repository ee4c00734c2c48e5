package domain

// StatusCode es el valor de estado tal como llega del backend: un token
// canonico (status-new, info-500, ...) o un texto libre heredado.
type StatusCode string

// ColorCategory es la variante de color del componente de UI.
type ColorCategory string

const (
	ColorDefault   ColorCategory = "default"
	ColorPrimary   ColorCategory = "primary"
	ColorSecondary ColorCategory = "secondary"
	ColorSuccess   ColorCategory = "success"
	ColorWarning   ColorCategory = "warning"
	ColorDanger    ColorCategory = "danger"
)

// StatusBadge agrupa todo lo necesario para pintar un estado.
type StatusBadge struct {
	Code  StatusCode    `json:"code"`
	Color ColorCategory `json:"color"`
	Label string        `json:"label"`
	Hex   string        `json:"hex"`
	Class string        `json:"class"`
}
