package config

// GenerationConfig holds content-generation preferences: length bounds,
// banned language, promotional-mention policy, and the repair loop budget.
type GenerationConfig struct {
	CompanyName         string   `yaml:"company_name"`
	AllowProductMention bool     `yaml:"allow_product_mention"`
	ProductMentionCount int      `yaml:"product_mention_count"` // replies that may mention the company
	BannedPhrases       []string `yaml:"banned_phrases"`
	MinPostLength       int      `yaml:"min_post_length"`
	MaxPostLength       int      `yaml:"max_post_length"`
	MaxReplyLength      int      `yaml:"max_reply_length"`
	CampaignBrief       string   `yaml:"campaign_brief"`
	RequireDissent      bool     `yaml:"require_dissent"`
	AutoRepair          bool     `yaml:"auto_repair"`
	RepairPasses        int      `yaml:"repair_passes"`
}

// DefaultGenerationConfig returns the baseline generation preferences.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		ProductMentionCount: 0,
		MinPostLength:       80,
		MaxPostLength:       900,
		MaxReplyLength:      400,
		RequireDissent:      true,
		AutoRepair:          false,
		RepairPasses:        2,
	}
}
