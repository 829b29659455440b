package postgres

import (
	"encoding/json"
	"time"

	"github.com/riftforge/draftorch/internal/domain"
	"gorm.io/datatypes"
)

// matchRecord is the gorm mapping for the matches table. Rosters are
// stored as jsonb columns (team1_players/team2_players); draft/game/real
// game payloads are large enough, and opaque enough to this layer, that
// they're kept as plain text rather than structured columns.
type matchRecord struct {
	ID                int64          `gorm:"primaryKey;autoIncrement"`
	Status            string         `gorm:"column:status;index;not null"`
	Team1JSON         datatypes.JSON `gorm:"column:team1_players;type:jsonb;not null"`
	Team2JSON         datatypes.JSON `gorm:"column:team2_players;type:jsonb;not null"`
	AverageSkillTeam1 float64
	AverageSkillTeam2 float64

	DraftJSON    string `gorm:"column:draft_json;type:text"`
	GameJSON     string `gorm:"column:game_json;type:text"`
	RealGameJSON string `gorm:"column:real_game_json;type:text"`

	LinkedRealGameID *string `gorm:"column:linked_real_game_id"`
	ActualWinner     *int    `gorm:"column:actual_winner"`
	ActualDuration   *int    `gorm:"column:actual_duration"`

	OwnerBackendID string `gorm:"column:owner_backend_id"`
	OwnerHeartbeat int64  `gorm:"column:owner_heartbeat"`

	CreatedAt   time.Time  `gorm:"column:created_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (matchRecord) TableName() string { return "matches" }

// voteRecord is the gorm mapping for match_votes, unique on (match_id,
// voter) via its composite primary key.
type voteRecord struct {
	MatchID          int64     `gorm:"column:match_id;primaryKey;autoIncrement:false"`
	Voter            string    `gorm:"column:voter;primaryKey"`
	ChosenRealGameID string    `gorm:"column:chosen_real_game_id;not null"`
	VotedAt          time.Time `gorm:"column:voted_at"`
}

func (voteRecord) TableName() string { return "match_votes" }

// settingRecord is the gorm mapping for the settings key/value table.
type settingRecord struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (settingRecord) TableName() string { return "settings" }

func fromDomain(m *domain.Match) (*matchRecord, error) {
	team1, err := json.Marshal(m.Team1Players)
	if err != nil {
		return nil, err
	}
	team2, err := json.Marshal(m.Team2Players)
	if err != nil {
		return nil, err
	}
	return &matchRecord{
		ID:                m.ID,
		Status:            string(m.Status),
		Team1JSON:         datatypes.JSON(team1),
		Team2JSON:         datatypes.JSON(team2),
		AverageSkillTeam1: m.AverageSkillTeam1,
		AverageSkillTeam2: m.AverageSkillTeam2,
		DraftJSON:         m.DraftJSON,
		GameJSON:          m.GameJSON,
		RealGameJSON:      m.RealGameJSON,
		LinkedRealGameID:  m.LinkedRealGameID,
		ActualWinner:      m.ActualWinner,
		ActualDuration:    m.ActualDuration,
		OwnerBackendID:    m.OwnerBackendID,
		OwnerHeartbeat:    m.OwnerHeartbeat,
		CreatedAt:         m.CreatedAt,
		CompletedAt:       m.CompletedAt,
	}, nil
}

func toDomain(rec *matchRecord) (*domain.Match, error) {
	var team1, team2 [5]domain.RosterSlot
	if len(rec.Team1JSON) > 0 {
		if err := json.Unmarshal(rec.Team1JSON, &team1); err != nil {
			return nil, err
		}
	}
	if len(rec.Team2JSON) > 0 {
		if err := json.Unmarshal(rec.Team2JSON, &team2); err != nil {
			return nil, err
		}
	}
	return &domain.Match{
		ID:                rec.ID,
		Status:            domain.MatchStatus(rec.Status),
		Team1Players:      team1,
		Team2Players:      team2,
		AverageSkillTeam1: rec.AverageSkillTeam1,
		AverageSkillTeam2: rec.AverageSkillTeam2,
		DraftJSON:         rec.DraftJSON,
		GameJSON:          rec.GameJSON,
		RealGameJSON:      rec.RealGameJSON,
		LinkedRealGameID:  rec.LinkedRealGameID,
		ActualWinner:      rec.ActualWinner,
		ActualDuration:    rec.ActualDuration,
		OwnerBackendID:    rec.OwnerBackendID,
		OwnerHeartbeat:    rec.OwnerHeartbeat,
		CreatedAt:         rec.CreatedAt,
		CompletedAt:       rec.CompletedAt,
	}, nil
}
