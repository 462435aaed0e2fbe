package providers

// Response payloads for the Sportradar golf-t2 feed. Only the fields
// the sync pipeline consumes are declared.

type worldRankingsResponse struct {
	Players []rankedPlayerDTO `json:"players"`
}

type rankedPlayerDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Rank      int    `json:"rank"`
}

type seasonScheduleResponse struct {
	Season      seasonDTO       `json:"season"`
	Tournaments []tournamentDTO `json:"tournaments"`
}

type seasonDTO struct {
	Year int `json:"year"`
}

type tournamentDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	EventType string   `json:"event_type"`
	Status    string   `json:"status"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Venue     venueDTO `json:"venue"`
}

type venueDTO struct {
	Courses []courseDTO `json:"courses"`
}

type courseDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Par     int    `json:"par"`
	Yardage int    `json:"yardage"`
}

type tournamentSummaryResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	EventType string     `json:"event_type"`
	Status    string     `json:"status"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Venue     venueDTO   `json:"venue"`
	Rounds    []roundDTO `json:"rounds"`
}

type roundDTO struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Status string `json:"status"`
}

type roundScoresResponse struct {
	ID      string            `json:"id"`
	Number  int               `json:"number"`
	Status  string            `json:"status"`
	Players []playerScoresDTO `json:"players"`
}

type playerScoresDTO struct {
	ID        string         `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Course    courseDTO      `json:"course"`
	Scores    []holeScoreDTO `json:"scores"`
}

type holeScoreDTO struct {
	Number  int `json:"number"`
	Par     int `json:"par"`
	Yardage int `json:"yardage"`
	Strokes int `json:"strokes"`
}
