package core

// TipKind classifies a tip for presentation.
type TipKind string

const (
	TipWarning TipKind = "warning"
	TipSuccess TipKind = "success"
	TipInfo    TipKind = "info"
)

// Tip is a single piece of advice. Tips are recomputed on demand and never stored.
type Tip struct {
	Kind    TipKind `json:"kind"`
	Message string  `json:"message"`
}
