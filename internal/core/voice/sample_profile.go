package voice

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/calebowu/ghostwriter/internal/core/guardrails"
	"github.com/calebowu/ghostwriter/internal/models"
)

//go:embed assets/sample_profile.yaml
var sampleProfileYAML []byte

type sampleAsset struct {
	SamplePosts string `yaml:"sample_posts"`
	Extracted   struct {
		Tone      string   `yaml:"tone"`
		Structure string   `yaml:"structure"`
		HookStyle string   `yaml:"hook_style"`
		CTAStyle  string   `yaml:"cta_style"`
		Themes    []string `yaml:"themes"`
		Dos       []string `yaml:"dos"`
		Donts     []string `yaml:"donts"`
		Summary   string   `yaml:"summary"`
	} `yaml:"extracted_profile"`
}

// LoadSampleProfile returns the built-in demo profile shipped with the
// binary. Trained is false: it was not derived from user samples.
func LoadSampleProfile() (models.VoiceProfile, error) {
	var asset sampleAsset
	if err := yaml.Unmarshal(sampleProfileYAML, &asset); err != nil {
		return models.VoiceProfile{}, fmt.Errorf("parse sample profile asset: %w", err)
	}

	now := time.Now().UTC()
	return models.VoiceProfile{
		ID:         "sample-profile",
		RawSamples: asset.SamplePosts,
		Extracted: models.ExtractedProfile{
			Tone:      asset.Extracted.Tone,
			Structure: asset.Extracted.Structure,
			HookStyle: asset.Extracted.HookStyle,
			CTAStyle:  asset.Extracted.CTAStyle,
			Themes:    asset.Extracted.Themes,
			Dos:       asset.Extracted.Dos,
			Donts:     asset.Extracted.Donts,
			Summary:   asset.Extracted.Summary,
		},
		Settings:  guardrails.Default(),
		Trained:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
