package domain

// RoadmapStep is one stage of a structured plan created from a roadmap action.
type RoadmapStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Roadmap is the structured plan the external roadmap service creates from a
// free-text corporate action.
type Roadmap struct {
	RoadmapID   string        `json:"roadmapID"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Steps       []RoadmapStep `json:"steps"`
}
