package services

import (
	"examprep/cache"
	"examprep/collaborator"
	"examprep/config"
	"examprep/logger"
	"examprep/ordering"
	"examprep/repository"
	"examprep/sessions"
	"examprep/study"
	"examprep/utils"

	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Services holds the long-lived components shared by the controllers.
type Services struct {
	Store    *repository.Store
	Access   *cache.Source
	Sessions *sessions.Manager
	Orders   *ordering.Persister
	Log      *logger.Logger

	// Remote is set when a collaborator instance owns course access. Payments recorded
	// here would not reach it.
	Remote bool

	closers []func() error
}

// App is set by Init, like database.Database.
var App *Services

// Init wires storage, the optional remote collaborator and the access cache behind one
// study.Source. Course detail and access status come from the remote collaborator when
// COLLABORATOR_URL is set, from the local database otherwise.
func Init(db *gorm.DB, cfg *config.Config, log *logger.Logger) *Services {
	store := repository.New(db, log)

	var src study.Source = store
	var updater ordering.Updater = store
	if cfg.CollaboratorURL != "" {
		client := collaborator.New(cfg.CollaboratorURL, cfg.CollaboratorToken, log)
		src, updater = client, client
		log.Info("using remote collaborator", "url", cfg.CollaboratorURL)
	}

	s := &Services{Store: store, Log: log, Remote: cfg.CollaboratorURL != ""}

	var ac cache.AccessCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		r, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.AccessCacheTTL)
		if err != nil {
			log.Warn("redis unavailable, access cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			ac = r
			s.closers = append(s.closers, r.Close)
		}
	}
	s.Access = cache.NewSource(src, ac, log)

	s.Sessions = sessions.NewManager(s.Access, log,
		sessions.WithIdleTTL(cfg.SessionIdleTTL),
		sessions.WithPurchasePrompt(func(e study.LockedEvent) string {
			return utils.PurchasePrompt(cfg.PurchaseChannelURL, cfg.PurchaseContact, e)
		}),
	)
	s.Orders = ordering.NewPersister(updater, log)

	App = s
	return s
}

func (s *Services) Close() error {
	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c())
	}
	return err
}
