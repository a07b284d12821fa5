package model

import (
	"io"
	"time"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// Difficulty rates an encounter.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyDeadly Difficulty = "deadly"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyDeadly:
		return true
	}
	return false
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// DateLabelLayout formats the human date labels stored in
// Campaign.LastSession and Encounter.Date.
const DateLabelLayout = "2 Jan 2006"

// Level bounds for player characters.
const (
	MinLevel = 1
	MaxLevel = 20
)

// Campaign is a storyline container owning players, encounters, sessions and maps.
type Campaign struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	LastSession string         `json:"lastSession"`
	Status      CampaignStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Player is a participant and their character in one campaign.
type Player struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	CampaignID    string    `json:"campaignId"`
	PlayerName    string    `json:"playerName"`
	CharacterName string    `json:"characterName"`
	Race          string    `json:"race"`
	Class         string    `json:"class"`
	Level         int       `json:"level"`
	HP            *int      `json:"hp,omitempty"`
	AC            *int      `json:"ac,omitempty"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Enemy is one line of an encounter roster.
type Enemy struct {
	Name    string `json:"name"`
	HP      *int   `json:"hp,omitempty"`
	AC      *int   `json:"ac,omitempty"`
	Details string `json:"details,omitempty"`
}

// Encounter is a combat or challenge event within a campaign.
type Encounter struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	CampaignID  string     `json:"campaignId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Enemies     []Enemy    `json:"enemies"`
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Session is a single play meeting referencing the encounters it covered.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	CampaignID   string     `json:"campaignId"`
	Title        string     `json:"title"`
	Notes        string     `json:"notes"`
	EncounterIDs []string   `json:"encounterIds"`
	Completed    bool       `json:"completed"`
	SessionDate  *time.Time `json:"sessionDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CampaignMap is an uploaded map file. The bytes live in blob storage under FileKey.
type CampaignMap struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CampaignID  string    `json:"campaignId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	FileKey     string    `json:"fileKey"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ChatMessage is one turn of the DM assistant conversation.
type ChatMessage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CampaignID string    `json:"campaignId"`
	Role       ChatRole  `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CampaignScoped is implemented by every entity that belongs to a campaign.
type CampaignScoped interface {
	GetCampaignID() string
}

func (p Player) GetCampaignID() string      { return p.CampaignID }
func (e Encounter) GetCampaignID() string   { return e.CampaignID }
func (s Session) GetCampaignID() string     { return s.CampaignID }
func (m CampaignMap) GetCampaignID() string { return m.CampaignID }

// MapUpload describes a map file on its way to blob storage.
type MapUpload struct {
	CampaignID  string
	Title       string
	Description string
	Filename    string
	ContentType string
	Body        io.Reader
}

func (c Campaign) GetID() string    { return c.ID }
func (p Player) GetID() string      { return p.ID }
func (e Encounter) GetID() string   { return e.ID }
func (s Session) GetID() string     { return s.ID }
func (m CampaignMap) GetID() string { return m.ID }
