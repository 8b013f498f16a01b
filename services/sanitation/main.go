package sanitation

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/grailbio/base/log"

	"variantstore/api/models"
	"variantstore/api/services"
)

type (
	SanitationService struct {
		Initialized      bool
		Config           *models.Config
		IngestionService *services.IngestionService
		Scheduler        *gocron.Scheduler
	}
)

func NewSanitationService(cfg *models.Config, iz *services.IngestionService) *SanitationService {
	ss := &SanitationService{
		Initialized:      false,
		Config:           cfg,
		IngestionService: iz,
	}

	ss.Init()

	return ss
}

// Init schedules the periodic removal of finished ingest requests.
func (ss *SanitationService) Init() {
	if ss.Initialized {
		return
	}

	interval := ss.Config.Api.SanitationIntervalHours
	if interval < 1 {
		interval = 24
	}

	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(interval).Hours().Do(ss.Sanitize); err != nil {
		log.Error.Printf("could not schedule request sanitation: %v", err)
		return
	}
	s.StartAsync()

	ss.Scheduler = s
	ss.Initialized = true
	log.Printf("sanitation service initialized, running every %dh", interval)
}

// Sanitize prunes finished requests older than the configured retention.
func (ss *SanitationService) Sanitize() int {
	retention := time.Duration(ss.Config.Api.RequestRetentionHours) * time.Hour
	pruned := ss.IngestionService.PruneRequests(retention)
	if pruned > 0 {
		log.Printf("pruned %d finished ingest requests older than %s", pruned, retention)
	}
	return pruned
}

func (ss *SanitationService) Stop() {
	if ss.Scheduler != nil {
		ss.Scheduler.Stop()
	}
}
