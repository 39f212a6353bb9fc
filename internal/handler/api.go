package handler

import (
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	cfg       config.AppConfig
	identity  *service.IdentityService
	posts     *service.PostService
	workflow  *service.WorkflowService
	taxonomy  *service.TaxonomyService
	comments  *service.CommentService
	reactions *service.ReactionService
	analytics *service.AnalyticsService
	overview  *service.OverviewService
	contact   *service.ContactService
	users     *service.UserService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, cfg config.AppConfig) *API {
	return &API{
		db:        db,
		cfg:       cfg,
		identity:  service.NewIdentityService(db, cfg.AdminEmails),
		posts:     service.NewPostService(db),
		workflow:  service.NewWorkflowService(db),
		taxonomy:  service.NewTaxonomyService(db),
		comments:  service.NewCommentService(db),
		reactions: service.NewReactionService(db),
		analytics: service.NewAnalyticsService(db),
		overview:  service.NewOverviewService(db),
		contact:   service.NewContactService(db),
		users:     service.NewUserService(db),
	}
}

// DB exposes the underlying gorm instance for tests.
func (a *API) DB() *gorm.DB {
	return a.db
}
