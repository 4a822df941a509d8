package config

type Config struct {
	API struct {
		// BaseURL points at the backend API root, e.g. http://localhost:4000/api
		BaseURL string `yaml:"baseURL"`
	} `yaml:"api"`

	Agent struct {
		WebPort  string `yaml:"webPort"`
		DataDir  string `yaml:"dataDir"`
		WatchDir string `yaml:"watchDir"`
	} `yaml:"agent"`

	Cache struct {
		TTLSeconds int `yaml:"ttlSeconds"`
	} `yaml:"cache"`

	Notifications struct {
		TelegramChatID int64 `yaml:"telegramChatID"`
	} `yaml:"notifications"`

	Logging struct {
		LogServerURL string `yaml:"logServerURL"`
	} `yaml:"logging"`
}
