package civic

// NeedLevel is the display classification of a need score. Tier names follow
// the client's badge variants.
type NeedLevel struct {
	Label string `json:"label"`
	Tier  string `json:"tier"`
}

// GetNeedLevel classifies a need score into three bands. Boundary values (70,
// 40) belong to the higher band.
func GetNeedLevel(score int) NeedLevel {
	if score >= 70 {
		return NeedLevel{Label: "Critical attention needed", Tier: "destructive"}
	}
	if score >= 40 {
		return NeedLevel{Label: "Rising concern", Tier: "default"}
	}
	return NeedLevel{Label: "Healthy momentum", Tier: "secondary"}
}
