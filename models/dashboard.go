package models

type DashboardStats struct {
	PlayersTotal      int `json:"players_total"`
	PlayersRegistered int `json:"players_registered"`
	TeamsTotal        int `json:"teams_total"`
	CompetitionsTotal int `json:"competitions_total"`
	GamesTotal        int `json:"games_total"`
	GamesUpcoming     int `json:"games_upcoming"`
	OfficialGames     int `json:"official_games"`
}
