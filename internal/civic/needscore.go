package civic

import (
	"math"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
)

// NeedScoreConfig carries the weights and caps of the need-score heuristic,
// so the formula is tunable without touching the scoring code.
type NeedScoreConfig struct {
	VolumeWeight     float64 // capped contribution of report volume
	VolumeCapReports float64 // report count at which volume maxes out
	OpenWeight       float64 // contribution of open-report proportion
	UpvoteWeight     float64 // capped contribution of upvote pressure
	UpvoteCapAvg     float64 // average upvotes per report at which it maxes out
	ResolutionWeight float64 // contribution of the unresolved backlog
	SpeedWeight      float64 // capped contribution of resolution slowness
	SpeedScaleHours  float64 // resolution-hours at which slowness maxes out
	EmptyScore       int     // floor returned for a block with no reports
}

func DefaultNeedScoreConfig() NeedScoreConfig {
	return NeedScoreConfig{
		VolumeWeight:     30,
		VolumeCapReports: 15,
		OpenWeight:       25,
		UpvoteWeight:     20,
		UpvoteCapAvg:     5,
		ResolutionWeight: 15,
		SpeedWeight:      10,
		SpeedScaleHours:  72,
		EmptyScore:       10,
	}
}

// Score computes the 0-100 need score for one block's reports. A block with
// no reports scores EmptyScore: "no data" without implying perfect health.
func (cfg NeedScoreConfig) Score(reports []ReportFacts) int {
	total := float64(len(reports))
	if total == 0 {
		return cfg.EmptyScore
	}

	var open, resolved, upvotes float64
	var resolutionHours float64
	var resolvedWithTime float64

	for _, r := range reports {
		upvotes += float64(r.Upvotes)
		switch r.Status {
		case models.StatusOpen:
			open++
		case models.StatusResolved:
			resolved++
			if r.ResolvedAt != nil {
				h := r.ResolvedAt.Sub(r.CreatedAt).Hours()
				if h < 0 {
					h = 0
				}
				resolutionHours += h
				resolvedWithTime++
			}
		}
	}

	// No resolutions yet: assume mid-scale speed rather than best or worst.
	avgResolutionHours := cfg.SpeedScaleHours
	if resolvedWithTime > 0 {
		avgResolutionHours = resolutionHours / resolvedWithTime
	}

	volumeScore := math.Min(cfg.VolumeWeight, total/cfg.VolumeCapReports*cfg.VolumeWeight)
	openScore := math.Min(cfg.OpenWeight, open/total*cfg.OpenWeight)
	upvoteScore := math.Min(cfg.UpvoteWeight, (upvotes/total)/cfg.UpvoteCapAvg*cfg.UpvoteWeight)
	resolutionScore := math.Min(cfg.ResolutionWeight, (1-resolved/total)*cfg.ResolutionWeight)
	speedScore := math.Min(cfg.SpeedWeight, avgResolutionHours/cfg.SpeedScaleHours*cfg.SpeedWeight)

	score := int(math.Round(volumeScore + openScore + upvoteScore + resolutionScore + speedScore))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
