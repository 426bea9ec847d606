package catalog

const DefaultNewsAPIBaseURL = "https://newsapi.org/v2"

func Default() *Catalog {
	c := &Catalog{}
	applyDefaults(c)
	return c
}

func defaultFeeds() []FeedConfig {
	return []FeedConfig{
		{Name: "coindesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
		{Name: "cointelegraph", URL: "https://cointelegraph.com/rss"},
		{Name: "cryptonews", URL: "https://cryptonews.com/news/feed/"},
		{Name: "decrypt", URL: "https://decrypt.co/feed"},
		{Name: "bitcoinist", URL: "https://bitcoinist.com/feed/"},
	}
}

func defaultSubreddits() []string {
	return []string{
		"cryptocurrency", "bitcoin", "ethereum", "cryptomarkets",
		"defi", "altcoin", "cryptonews", "bitcoinmarkets",
	}
}

func defaultQueries() []string {
	return []string{
		"cryptocurrency OR bitcoin OR ethereum",
		"crypto regulation OR SEC bitcoin",
		"blockchain OR DeFi OR NFT",
	}
}

func defaultKeywords() []string {
	return []string{
		"bitcoin", "btc", "ethereum", "eth", "cryptocurrency", "crypto",
		"blockchain", "defi", "nft", "altcoin", "trading", "exchange",
		"binance", "coinbase", "regulation", "sec", "cftc", "fed",
		"inflation", "interest rate", "monetary policy", "cbdc",
		"stablecoin", "usdt", "usdc", "tether", "solana", "cardano",
		"polkadot", "chainlink", "dogecoin", "shiba", "meme coin",
	}
}

func defaultImportance() map[string]int {
	return map[string]int{
		"regulation":    8,
		"sec":           8,
		"ban":           9,
		"approval":      8,
		"etf":           7,
		"institutional": 6,
		"adoption":      6,
		"hack":          8,
		"security":      7,
		"partnership":   5,
		"upgrade":       6,
		"fork":          7,
		"halving":       8,
	}
}

func defaultAssets() []AssetConfig {
	return []AssetConfig{
		{Symbol: "BTC", Patterns: []string{"BTC", "Bitcoin"}},
		{Symbol: "ETH", Patterns: []string{"ETH", "Ethereum"}},
		{Symbol: "ADA", Patterns: []string{"ADA", "Cardano"}},
		{Symbol: "SOL", Patterns: []string{"SOL", "Solana"}},
		{Symbol: "DOT", Patterns: []string{"DOT", "Polkadot"}},
		{Symbol: "LINK", Patterns: []string{"LINK", "Chainlink"}},
		{Symbol: "DOGE", Patterns: []string{"DOGE", "Dogecoin"}},
		{Symbol: "SHIB", Patterns: []string{"SHIB", "Shiba"}},
		{Symbol: "USDT", Patterns: []string{"USDT", "Tether"}},
		{Symbol: "USDC", Patterns: []string{"USDC", "USD Coin"}},
	}
}

func applyDefaults(c *Catalog) {
	if len(c.Feeds) == 0 {
		c.Feeds = defaultFeeds()
	}
	if len(c.Subreddits) == 0 {
		c.Subreddits = defaultSubreddits()
	}
	if c.NewsAPI.BaseURL == "" {
		c.NewsAPI.BaseURL = DefaultNewsAPIBaseURL
	}
	if len(c.NewsAPI.Queries) == 0 {
		c.NewsAPI.Queries = defaultQueries()
	}
	if c.NewsAPI.PageSize == 0 {
		c.NewsAPI.PageSize = 20
	}
	if len(c.Keywords) == 0 {
		c.Keywords = defaultKeywords()
	}
	if len(c.Importance) == 0 {
		c.Importance = defaultImportance()
	}
	if len(c.Assets) == 0 {
		c.Assets = defaultAssets()
	}
}
