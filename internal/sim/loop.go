package sim

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"

	"github.com/PixelGuys/Stella-Dei/internal/geom"
)

// How often the loop logs an aggregate report, in ticks.
const reportEvery = 600

// Loop drives the simulation on a dedicated goroutine at a fixed real-time
// interval, rotating the solar direction to produce a day/night cycle.
type Loop struct {
	Sim      *Simulation
	Interval time.Duration // Base tick interval
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused

	// Tick parameters; SolarDirection is derived from the rotation angle.
	SolarConstant float32
	Conductivity  float32
	TimeScale     float32
	DayLength     float32 // Game seconds per full solar revolution

	// OnTick, if set, runs after every completed tick.
	OnTick func(tick uint64)

	running    bool
	stop       chan struct{}
	solarAngle float32
}

// Run blocks, ticking the simulation until Stop is called.
func (lp *Loop) Run() {
	lp.running = true
	lp.stop = make(chan struct{})
	slog.Info("simulation loop started",
		"interval", lp.Interval,
		"speed", lp.Speed,
		"time_scale", lp.TimeScale,
	)

	for lp.running {
		select {
		case <-lp.stop:
			lp.running = false
			continue
		default:
		}

		if lp.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		lp.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(lp.Interval) / lp.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation loop stopped", "tick", lp.Sim.CurrentTick())
}

// Stop halts the loop after the current tick completes.
func (lp *Loop) Stop() {
	if lp.stop != nil {
		close(lp.stop)
	}
}

func (lp *Loop) step() {
	dt := float32(lp.Interval.Seconds())
	gameDT := dt * lp.TimeScale

	if lp.DayLength > 0 {
		lp.solarAngle += gameDT / lp.DayLength * 2 * math32.Pi
	}
	dir := geom.V3(math32.Cos(lp.solarAngle), 0, math32.Sin(lp.solarAngle))

	lp.Sim.Tick(TickOptions{
		SolarDirection: dir,
		SolarConstant:  lp.SolarConstant,
		Conductivity:   lp.Conductivity,
		TimeScale:      lp.TimeScale,
		DT:             dt,
	})

	tick := lp.Sim.CurrentTick()
	if lp.OnTick != nil {
		lp.OnTick(tick)
	}

	if tick%reportEvery == 0 {
		st := lp.Sim.Snapshot()
		slog.Info("simulation report",
			"tick", st.Tick,
			"game_time", st.GameTime,
			"mean_temperature", st.MeanTemperature,
			"total_water", st.TotalWater,
			"population", st.Population,
		)
	}
}
