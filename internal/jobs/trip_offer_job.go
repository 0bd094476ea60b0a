package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"

	"tripdesk/internal/core/domain/model/kernel"
	"tripdesk/internal/core/domain/model/trip"
	"tripdesk/internal/core/ports"
)

// maxTripsPerBroadcast caps how many trips one broadcast message lists.
const maxTripsPerBroadcast = 5

// TripOfferJob periodically broadcasts newly published trips to the drivers
// currently offerable. It remembers the highest trip id it has announced, so
// each trip is broadcast once per process lifetime.
type TripOfferJob struct {
	uowFactory ports.UnitOfWorkFactory
	notifier   ports.Notifier
	cron       *cron.Cron
	logger     *slog.Logger

	lastAnnouncedID int64
}

// NewTripOfferJob creates the broadcast job.
func NewTripOfferJob(uowFactory ports.UnitOfWorkFactory, notifier ports.Notifier, logger *slog.Logger) *TripOfferJob {
	return &TripOfferJob{
		uowFactory: uowFactory,
		notifier:   notifier,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "trip_offer_job"),
	}
}

// Start begins the broadcast job, running once a minute.
func (j *TripOfferJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Trip offer broadcast failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Trip offer job started (running every minute)")
	return nil
}

// Stop stops the broadcast job.
func (j *TripOfferJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Trip offer job stopped")
}

func (j *TripOfferJob) run(ctx context.Context) error {
	uow := j.uowFactory.Create()

	available, err := uow.TripRepository().GetAllAvailable(ctx)
	if err != nil {
		return fmt.Errorf("load available trips: %w", err)
	}

	fresh := j.takeFresh(available)
	if len(fresh) == 0 {
		return nil
	}

	drivers, err := uow.DriverRepository().GetAllOfferable(ctx)
	if err != nil {
		return fmt.Errorf("load offerable drivers: %w", err)
	}
	if len(drivers) == 0 {
		return nil
	}

	message := broadcastMessage(fresh)
	for _, candidate := range drivers {
		phone, err := kernel.NewPhone(candidate.Phone())
		if err != nil {
			j.logger.WarnContext(ctx, "Driver has an unusable phone number",
				"driver_id", candidate.ID(), "error", err)
			continue
		}
		if err := j.notifier.SendText(ctx, phone, message); err != nil {
			j.logger.WarnContext(ctx, "Trip offer delivery failed",
				"driver_id", candidate.ID(), "error", err)
		}
	}
	return nil
}

// takeFresh filters out trips already announced, caps the batch, and advances
// the watermark over the returned trips only. Overflow past the cap stays
// below the watermark and goes out on the next tick.
func (j *TripOfferJob) takeFresh(available []*trip.Trip) []*trip.Trip {
	var fresh []*trip.Trip
	for _, aggregate := range available {
		if aggregate.ID() > j.lastAnnouncedID {
			fresh = append(fresh, aggregate)
		}
	}
	sort.Slice(fresh, func(i, k int) bool { return fresh[i].ID() < fresh[k].ID() })
	if len(fresh) > maxTripsPerBroadcast {
		fresh = fresh[:maxTripsPerBroadcast]
	}
	for _, aggregate := range fresh {
		if aggregate.ID() > j.lastAnnouncedID {
			j.lastAnnouncedID = aggregate.ID()
		}
	}
	return fresh
}

func broadcastMessage(fresh []*trip.Trip) string {
	var b strings.Builder
	b.WriteString("Nuevos viajes disponibles:\n")
	for _, aggregate := range fresh {
		b.WriteString(fmt.Sprintf("\n• Viaje #%d (%s)", aggregate.ID(), tripLabel(aggregate)))
		if price := aggregate.Price(); price != nil {
			b.WriteString(fmt.Sprintf(" por Gs. %.0f", *price))
		}
		if waypoints := aggregate.Waypoints(); len(waypoints) > 0 {
			b.WriteString(fmt.Sprintf(", desde %s", waypoints[0].AddressText))
		}
	}
	return b.String()
}

func tripLabel(aggregate *trip.Trip) string {
	switch {
	case aggregate.Kind() == trip.KindParcel:
		return "encomienda"
	case aggregate.CustomKind() == trip.CustomKindRound:
		return "ida y vuelta"
	case aggregate.CustomKind() == trip.CustomKindTour:
		return "tour"
	default:
		return "sencillo"
	}
}
