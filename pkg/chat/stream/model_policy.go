package stream

import "ai-assistant-be/internal/constant"

// ModelPolicy decides which model serves an exchange. Retrieval-grounded
// modes are pinned to the default model; the requested fast tier is honored
// only when tier selection is enabled.
type ModelPolicy struct {
	DefaultModel       string
	FastModel          string
	AllowTierSelection bool
}

func (p ModelPolicy) Resolve(requestedTier, mode string) string {
	switch mode {
	case constant.ChatModeDoc, constant.ChatModeData:
		return p.DefaultModel
	}
	if p.AllowTierSelection && requestedTier == constant.ModelTierFast && p.FastModel != "" {
		return p.FastModel
	}
	return p.DefaultModel
}
