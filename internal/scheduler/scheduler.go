package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/glasscast/weathercore/internal/store"
	"github.com/glasscast/weathercore/internal/weather"
)

// Refresher periodically fetches current weather for every favorited
// location so that the TTL cache stays warm for the dashboard.
type Refresher struct {
	scheduler *gocron.Scheduler
	client    weather.Client
	favorites *store.Favorites
	interval  time.Duration
}

// New creates a Refresher.
func New(client weather.Client, favorites *store.Favorites, interval time.Duration) *Refresher {
	s := gocron.NewScheduler(time.UTC)
	return &Refresher{
		scheduler: s,
		client:    client,
		favorites: favorites,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (r *Refresher) Start() error {
	minutes := int(r.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := r.scheduler.Every(minutes).Minutes().Do(func() {
		favorites := r.favorites.List()
		if len(favorites) == 0 {
			return
		}
		log.Printf("INFO: refreshing weather for %d favorite(s)", len(favorites))

		var wg sync.WaitGroup
		for _, loc := range favorites {
			loc := loc
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := r.client.CurrentWeather(ctx, loc.Latitude, loc.Longitude); err != nil {
					log.Printf("refresh failed for %s: %v", loc.Name, err)
				}
			}()
		}
		wg.Wait()
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
