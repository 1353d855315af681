package http

import (
	"fmt"

	"github.com/ticketsync/ticketsync/internal/application/assignment"
	"github.com/ticketsync/ticketsync/internal/application/notification"
	notificationUsecases "github.com/ticketsync/ticketsync/internal/application/notification/usecases"
	ticketUsecases "github.com/ticketsync/ticketsync/internal/application/ticket/usecases"
	trackerUsecases "github.com/ticketsync/ticketsync/internal/application/tracker/usecases"
	"github.com/ticketsync/ticketsync/internal/infrastructure/email"
	"github.com/ticketsync/ticketsync/internal/infrastructure/tracker"
	"github.com/ticketsync/ticketsync/internal/shared/db"
	"github.com/ticketsync/ticketsync/internal/shared/services/markdown"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Ticket lifecycle
	createTicketUC *ticketUsecases.CreateTicketUseCase
	updateTicketUC *ticketUsecases.UpdateTicketUseCase
	deleteTicketUC *ticketUsecases.DeleteTicketUseCase
	getTicketUC    *ticketUsecases.GetTicketUseCase
	addReplyUC     *ticketUsecases.AddReplyUseCase

	// Tracker webhook
	handleDeliveryUC *trackerUsecases.HandleDeliveryUseCase

	// Notification
	dispatcher          *notificationUsecases.Dispatcher
	notificationService *notification.Service
}

func (c *Container) initUseCases() error {
	cfg := c.cfg
	log := c.log
	r := c.repos
	txManager := db.NewTransactionManager(c.db)

	// A nil interface, never a typed nil, when the tracker is not configured.
	var trackerClient ticketUsecases.TrackerClient
	if cfg.Tracker.Enabled() {
		var opts []tracker.Option
		if c.metricsRecorder != nil {
			opts = append(opts, tracker.WithObserver(c.metricsRecorder))
		}
		client, err := tracker.NewClient(cfg.Tracker, log.Named("tracker"), opts...)
		if err != nil {
			return fmt.Errorf("failed to create tracker client: %w", err)
		}
		trackerClient = client
		log.Infow("tracker sync enabled", "organization_url", cfg.Tracker.OrganizationURL, "project", cfg.Tracker.Project)
	} else {
		log.Warnw("tracker sync disabled; tickets are kept locally only")
	}

	engine := assignment.NewEngine(r.platformRepo, r.ticketRepo, log.Named("assignment"))
	dispatcher := notificationUsecases.NewDispatcher(
		r.notificationRepo, r.userRepo, engine, c.broadcaster, c.metrics, log.Named("notification"))
	if cfg.Email.Enabled {
		dispatcher.WithMailer(email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			BaseURL:     cfg.Server.BaseURL,
		}))
		log.Infow("notification e-mail copies enabled", "smtp_host", cfg.Email.SMTPHost)
	}
	audit := ticketUsecases.NewAuditTrail(r.editRepo, log)

	c.ucs = &allUseCases{
		createTicketUC: ticketUsecases.NewCreateTicketUseCase(
			r.ticketRepo, r.platformRepo, r.userRepo, dispatcher, audit, trackerClient,
			txManager, c.broadcaster, c.metrics, log),
		updateTicketUC: ticketUsecases.NewUpdateTicketUseCase(
			r.ticketRepo, r.userRepo, dispatcher, audit, trackerClient,
			txManager, c.broadcaster, c.metrics, log),
		deleteTicketUC: ticketUsecases.NewDeleteTicketUseCase(
			r.ticketRepo, r.editRepo, r.replyRepo, r.notificationRepo, trackerClient,
			txManager, c.broadcaster, c.metrics, log),
		getTicketUC: ticketUsecases.NewGetTicketUseCase(r.ticketRepo, r.editRepo, r.replyRepo, log),
		addReplyUC: ticketUsecases.NewAddReplyUseCase(
			r.ticketRepo, r.replyRepo, r.userRepo, dispatcher, audit, trackerClient,
			txManager, c.broadcaster, c.metrics, log),
		dispatcher:          dispatcher,
		notificationService: notification.NewService(r.notificationRepo, c.broadcaster, log),
	}

	webhookSync := trackerUsecases.NewWebhookSync(
		r.ticketRepo,
		r.platformRepo,
		r.userRepo,
		markdown.NewDescriptionSanitizer(cfg.Sanitizer.Timeout()),
		trackerUsecases.Lifecycle{
			Create: c.ucs.createTicketUC,
			Update: c.ucs.updateTicketUC,
			Delete: c.ucs.deleteTicketUC,
		},
		cfg.Tracker.ServicePrincipalID,
		log.Named("webhook"),
	)
	c.ucs.handleDeliveryUC = trackerUsecases.NewHandleDeliveryUseCase(webhookSync, r.deliveryRepo, c.metrics, log.Named("webhook"))
	return nil
}
