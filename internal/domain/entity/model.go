package entity

// ModelInfo описание модели для списка /api/models
type ModelInfo struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Accuracy         float64      `json:"accuracy"`
	SupportedDefects []DefectType `json:"supported_defects"`
}
