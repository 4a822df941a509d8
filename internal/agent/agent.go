package agent

import (
	"fmt"
	"log"
	"os"
	"time"

	"cloud_drive_agent/internal/pkg/api_client"
	"cloud_drive_agent/internal/pkg/bridge"
	"cloud_drive_agent/internal/pkg/cache"
	"cloud_drive_agent/internal/pkg/config"
	"cloud_drive_agent/internal/pkg/files/files_service"
	"cloud_drive_agent/internal/pkg/guard"
	"cloud_drive_agent/internal/pkg/notify"
	"cloud_drive_agent/internal/pkg/notify/telegram_notifier"
	"cloud_drive_agent/internal/pkg/realtime"
	"cloud_drive_agent/internal/pkg/session/usecase"
	"cloud_drive_agent/internal/pkg/token_store"
	"cloud_drive_agent/internal/pkg/token_store/sqlite_storage"
	"cloud_drive_agent/internal/pkg/watcher"
	"cloud_drive_agent/internal/pkg/web_server/web_server_service"
)

// Agent assembles the whole client: persisted session, API clients,
// realtime channel, query cache, event bridge, local web UI and the
// optional upload watcher.
type Agent struct {
	config  *config.Config
	tokens  *token_store.Store
	session *usecase.Controller
	manager *realtime.Manager
	binder  *bridge.Binder
	web     *web_server_service.WebServer
	watcher *watcher.Watcher
}

func New(cfg *config.Config) (*Agent, error) {
	storage, err := sqlite_storage.NewSqliteStorage(cfg.TokenDBPath(), cfg.TokenKeyPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open token storage: %v", err)
	}
	tokens := token_store.New(storage)

	api := api_client.NewClient(cfg.APIBaseURL(), cfg.Logging.LogServerURL, tokens)
	files := files_service.NewFilesService(cfg.APIBaseURL(), cfg.Logging.LogServerURL, tokens)

	manager := realtime.NewManager(cfg.RealtimeURL())
	session := usecase.NewController(api, tokens, manager)

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	queryCache := cache.New()
	queryCache.Register(cache.KeyFilesList, cache.GroupFiles, ttl, func() (interface{}, error) {
		return files.ListFiles(nil)
	})
	queryCache.Register(cache.KeySharesWithMe, cache.GroupShares, ttl, func() (interface{}, error) {
		return files.ListSharedWithMe(nil)
	})
	queryCache.Register(cache.KeySharesByMe, cache.GroupShares, ttl, func() (interface{}, error) {
		return files.ListSharedByMe(nil)
	})

	notifier := buildNotifier(cfg)
	binder := bridge.NewBinder(queryCache, notifier)

	// Every channel replacement rebinds the event handlers; teardown
	// passes nil, which just unbinds.
	manager.OnChange(func(channel *realtime.Channel) {
		binder.Bind(channel)
	})

	routeGuard := guard.NewGuard(session, tokens)
	web := web_server_service.NewWebServer(session, queryCache, routeGuard, cfg.Agent.WebPort)

	var uploadWatcher *watcher.Watcher
	if cfg.Agent.WatchDir != "" {
		uploadWatcher = watcher.NewWatcher(cfg.Agent.WatchDir, files, session, notifier)
	}

	return &Agent{
		config:  cfg,
		tokens:  tokens,
		session: session,
		manager: manager,
		binder:  binder,
		web:     web,
		watcher: uploadWatcher,
	}, nil
}

func buildNotifier(cfg *config.Config) notify.Notifier {
	notifiers := notify.Multi{notify.LogNotifier{}}

	token := os.Getenv("TELEGRAM_TOKEN")
	if token != "" && cfg.Notifications.TelegramChatID != 0 {
		tg, err := telegram_notifier.NewTelegramNotifier(token, cfg.Notifications.TelegramChatID)
		if err != nil {
			log.Printf("agent: telegram notifications disabled: %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	return notifiers
}

// Run resolves the session in the background and serves the web UI on
// the foreground goroutine. It blocks until the server stops.
func (a *Agent) Run() error {
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			log.Printf("agent: upload watcher disabled: %v", err)
			a.watcher = nil
		}
	}

	// The UI answers immediately with the loading page while this runs.
	go a.session.ResolveSession()

	return a.web.Start()
}

// Shutdown releases the realtime channel and the watcher. The token
// stays persisted; the next start resumes the session.
func (a *Agent) Shutdown() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.binder.Unbind()
	a.manager.Disconnect()
	log.Printf("agent: shut down")
}
