package stats

// Category is the fixed conclusion attached to one analysed variable or test
type Category string

const (
	CategoryStrongPositive Category = "strong positive relation — recommend intervention"
	CategoryWeakPositive   Category = "weak positive relation — possible early pattern"
	CategoryNegative       Category = "negative relation — possible protective effect"
	CategoryNoRelation     Category = "no significant relation"

	CategoryStrataDiffer  Category = "stratum-level differences present"
	CategoryStrataSimilar Category = "no stratum-level differences"
	CategoryGroupsDiffer  Category = "significant group difference in usage hours"
	CategoryGroupsSimilar Category = "no significant group difference"
	CategoryPairDiffers   Category = "pairwise stratum difference"
	CategoryInsufficient  Category = "insufficient data"
)

// Finding is one sentence-long conclusion
type Finding struct {
	Source   TestKind `json:"source"`
	Subject  string   `json:"subject"`
	Category Category `json:"category"`
	Sentence string   `json:"sentence"`
}
