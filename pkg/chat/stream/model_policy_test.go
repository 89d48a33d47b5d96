package stream

import (
	"testing"

	"ai-assistant-be/internal/constant"
)

func TestModelPolicyResolve(t *testing.T) {
	policy := ModelPolicy{
		DefaultModel:       "gpt-4o-mini",
		FastModel:          "gpt-35-turbo-16k",
		AllowTierSelection: true,
	}
	lockedPolicy := ModelPolicy{
		DefaultModel:       "gpt-4o-mini",
		FastModel:          "gpt-35-turbo-16k",
		AllowTierSelection: false,
	}

	tests := []struct {
		name      string
		policy    ModelPolicy
		requested string
		mode      string
		want      string
	}{
		{
			name:      "default when nothing requested",
			policy:    policy,
			requested: "",
			mode:      constant.ChatModeSimple,
			want:      "gpt-4o-mini",
		},
		{
			name:      "fast tier honored when allowed",
			policy:    policy,
			requested: constant.ModelTierFast,
			mode:      constant.ChatModeSimple,
			want:      "gpt-35-turbo-16k",
		},
		{
			name:      "fast tier ignored when selection disabled",
			policy:    lockedPolicy,
			requested: constant.ModelTierFast,
			mode:      constant.ChatModeSimple,
			want:      "gpt-4o-mini",
		},
		{
			name:      "doc mode pins the default model",
			policy:    policy,
			requested: constant.ModelTierFast,
			mode:      constant.ChatModeDoc,
			want:      "gpt-4o-mini",
		},
		{
			name:      "data mode pins the default model",
			policy:    policy,
			requested: constant.ModelTierFast,
			mode:      constant.ChatModeData,
			want:      "gpt-4o-mini",
		},
		{
			name:      "unknown tier falls back to default",
			policy:    policy,
			requested: "GPT-9000",
			mode:      constant.ChatModeWeb,
			want:      "gpt-4o-mini",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Resolve(tt.requested, tt.mode)
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.requested, tt.mode, got, tt.want)
			}
		})
	}
}
