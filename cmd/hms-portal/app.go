package main

import (
	"github.com/rs/zerolog"

	"github.com/hms/portal/internal/config"
	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/booking"
	"github.com/hms/portal/internal/domain/chat"
	"github.com/hms/portal/internal/domain/dashboard"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/domain/identity"
	"github.com/hms/portal/internal/domain/patients"
	"github.com/hms/portal/internal/domain/prescriptions"
	"github.com/hms/portal/internal/domain/reviews"
	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/session"
)

// app is the state shared by every subcommand once flags and config are
// read.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// portal is every service of the portal wired to one backend client and
// one session store.
type portal struct {
	api           *apiclient.Client
	sessions      session.Store
	identity      *identity.Service
	appointments  *appointments.Service
	doctors       *doctors.Service
	patients      *patients.Service
	prescriptions *prescriptions.Service
	reviews       *reviews.Service
	booking       *booking.Service
	dashboard     *dashboard.Service
	chat          *chat.Service
}

func (a *app) wire(sessions session.Store) *portal {
	api := apiclient.New(a.cfg.APIBaseURL, sessions, a.cfg.RequestTimeout,
		apiclient.WithLogger(a.logger.With().Str("component", "apiclient").Logger()),
		apiclient.WithRateLimit(a.cfg.BackendRPS, a.cfg.BackendBurst),
	)

	apptRepo := appointments.NewRepo(api)
	doctorRepo := doctors.NewRepo(api)
	patientRepo := patients.NewRepo(api)
	rxRepo := prescriptions.NewRepo(api)

	p := &portal{
		api:           api,
		sessions:      sessions,
		identity:      identity.NewService(identity.NewBackend(api), sessions, a.logger),
		appointments:  appointments.NewService(apptRepo),
		doctors:       doctors.NewService(doctorRepo, apptRepo, a.logger),
		patients:      patients.NewService(patientRepo, sessions, a.logger),
		prescriptions: prescriptions.NewService(rxRepo, a.logger),
		chat:          chat.NewService(chat.NewAssistant(api), a.logger),
	}
	p.reviews = reviews.NewService(reviews.NewRepo(api), p.appointments, a.logger)
	p.booking = booking.NewService(booking.NewCalculator(apptRepo, a.logger), apptRepo, p.doctors, a.logger)
	p.dashboard = dashboard.NewService(apptRepo, patientRepo, doctorRepo, rxRepo, a.logger)
	return p
}
