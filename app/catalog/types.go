package catalog

// Catalog describes where news comes from and the hand-tuned tables used to
// score it. Every section falls back to built-in defaults when omitted.
type Catalog struct {
	Feeds      []FeedConfig   `yaml:"feeds"`
	Subreddits []string       `yaml:"subreddits"`
	NewsAPI    NewsAPIConfig  `yaml:"news_api"`
	Keywords   []string       `yaml:"keywords"`
	Importance map[string]int `yaml:"importance"`
	Assets     []AssetConfig  `yaml:"assets"`
}

type FeedConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

type NewsAPIConfig struct {
	BaseURL  string   `yaml:"base_url"`
	Queries  []string `yaml:"queries"`
	PageSize int      `yaml:"page_size"`
}

type AssetConfig struct {
	Symbol   string   `yaml:"symbol"`
	Patterns []string `yaml:"patterns"`
}
