package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Colony state at window end
	Population  int     `csv:"population"`
	Workers     int     `csv:"workers"`
	Soldiers    int     `csv:"soldiers"`
	Scouts      int     `csv:"scouts"`
	Nurses      int     `csv:"nurses"`
	Eggs        int     `csv:"eggs"`
	Pupae       int     `csv:"pupae"`
	FoodStorage float64 `csv:"food_storage"`
	Level       int     `csv:"level"`

	// Events during window
	EggsLaid      int     `csv:"eggs_laid"`
	Hatches       int     `csv:"hatches"`
	Deaths        int     `csv:"deaths"`
	DeathsStarved int     `csv:"deaths_starved"`
	DeathsAged    int     `csv:"deaths_aged"`
	FoodCollected float64 `csv:"food_collected"`

	// Foraging efficiency
	FoodPerAnt float64 `csv:"food_per_ant"`

	// Pheromone field at window end
	Deposits       int     `csv:"deposits"`
	SpreadDeposits int     `csv:"spread_deposits"`
	HighQuality    int     `csv:"high_quality"`
	StrengthMean   float64 `csv:"strength_mean"`
	StrengthP50    float64 `csv:"strength_p50"`
	StrengthP90    float64 `csv:"strength_p90"`
	QualityMean    float64 `csv:"quality_mean"`
	QualityStd     float64 `csv:"quality_std"`

	// Food sources
	FoodAvailable float64 `csv:"food_available"`
}

// Summarize computes mean, standard deviation, and the 10/50/90th
// percentiles of values. Zeroes on an empty slice.
func Summarize(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("workers", s.Workers),
		slog.Int("soldiers", s.Soldiers),
		slog.Int("scouts", s.Scouts),
		slog.Int("nurses", s.Nurses),
		slog.Int("eggs", s.Eggs),
		slog.Int("pupae", s.Pupae),
		slog.Float64("food_storage", s.FoodStorage),
		slog.Int("level", s.Level),
		slog.Int("eggs_laid", s.EggsLaid),
		slog.Int("hatches", s.Hatches),
		slog.Int("deaths", s.Deaths),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("deaths_aged", s.DeathsAged),
		slog.Float64("food_collected", s.FoodCollected),
		slog.Float64("food_per_ant", s.FoodPerAnt),
		slog.Int("deposits", s.Deposits),
		slog.Int("spread_deposits", s.SpreadDeposits),
		slog.Int("high_quality", s.HighQuality),
		slog.Float64("strength_mean", s.StrengthMean),
		slog.Float64("strength_p50", s.StrengthP50),
		slog.Float64("strength_p90", s.StrengthP90),
		slog.Float64("quality_mean", s.QualityMean),
		slog.Float64("quality_std", s.QualityStd),
		slog.Float64("food_available", s.FoodAvailable),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"workers", s.Workers,
		"soldiers", s.Soldiers,
		"scouts", s.Scouts,
		"nurses", s.Nurses,
		"eggs", s.Eggs,
		"pupae", s.Pupae,
		"food_storage", s.FoodStorage,
		"level", s.Level,
		"eggs_laid", s.EggsLaid,
		"hatches", s.Hatches,
		"deaths", s.Deaths,
		"deaths_starved", s.DeathsStarved,
		"deaths_aged", s.DeathsAged,
		"food_collected", s.FoodCollected,
		"food_per_ant", s.FoodPerAnt,
		"deposits", s.Deposits,
		"spread_deposits", s.SpreadDeposits,
		"high_quality", s.HighQuality,
		"strength_mean", s.StrengthMean,
		"strength_p50", s.StrengthP50,
		"strength_p90", s.StrengthP90,
		"quality_mean", s.QualityMean,
		"quality_std", s.QualityStd,
		"food_available", s.FoodAvailable,
	)
}
