package db

import (
	"time"

	"gorm.io/datatypes"
)

// Role values for User.Role.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Game lifecycle statuses.
const (
	GameStatusPlaying  = "PLAYING"
	GameStatusFinished = "FINISHED"
)

// Order lifecycle statuses.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Promo discount units.
const (
	DiscountUnitPercentage = "PERCENTAGE"
	DiscountUnitMoney      = "MONEY"
)

// QuestionTiers are the point buckets a question can belong to. Every
// category contributes two questions per tier to a provisioned game.
var QuestionTiers = []int{200, 400, 600}

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Name           string    `gorm:"size:64;not null" json:"name"`
	PasswordHash   string    `gorm:"size:128;not null" json:"-"`
	PhoneNumber    string    `gorm:"size:32" json:"phone_number"`
	Role           string    `gorm:"size:16;not null;default:USER" json:"role"`
	OwnedGameCount int       `gorm:"not null;default:0" json:"owned_game_count"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

type Category struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	ParentCategoryID *uint     `gorm:"index" json:"parent_category_id,omitempty"`
	ImageURL         string    `gorm:"size:512" json:"image_url"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

type Question struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CategoryID uint           `gorm:"index:idx_questions_category_score;not null" json:"category_id"`
	Category   *Category      `json:"category,omitempty"`
	Score      int            `gorm:"index:idx_questions_category_score;not null" json:"score"`
	Text       string         `gorm:"size:2048;not null" json:"text"`
	Answer     string         `gorm:"size:2048;not null" json:"answer"`
	Media      datatypes.JSON `gorm:"type:jsonb" json:"media,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

type Game struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Status      string    `gorm:"size:16;not null;default:PLAYING" json:"status"`
	PlayerTurn  int       `gorm:"not null;default:0" json:"player_turn"`
	RePlayCount int       `gorm:"not null;default:0" json:"replay_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
	Teams       []Team    `json:"teams,omitempty"`
}

type Team struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	GameID          uint      `gorm:"index;not null" json:"game_id"`
	Name            string    `gorm:"size:64;not null" json:"name"`
	TeamOrder       int       `gorm:"not null" json:"order"`
	PlayerCount     int       `gorm:"not null;default:1" json:"player_count"`
	Score           int       `gorm:"not null;default:0" json:"score"`
	UsedAnswerAgain bool      `gorm:"not null;default:false" json:"used_answer_again"`
	UsedLuckWheel   bool      `gorm:"not null;default:false" json:"used_luck_wheel"`
	UsedCallFriend  bool      `gorm:"not null;default:false" json:"used_call_friend"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// GameCategory snapshots a category choice made at provisioning time.
type GameCategory struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	GameID     uint `gorm:"index;not null" json:"game_id"`
	CategoryID uint `gorm:"index;not null" json:"category_id"`
}

// GameQuestion assigns a sampled question to a game. Answered flips
// false -> true exactly once; there is no unanswer path.
type GameQuestion struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	GameID         uint  `gorm:"index;not null" json:"game_id"`
	GameCategoryID uint  `gorm:"index;not null" json:"game_category_id"`
	QuestionID     uint  `gorm:"index;not null" json:"question_id"`
	Answered       bool  `gorm:"not null;default:false" json:"answered"`
	TeamID         *uint `json:"team_id,omitempty"`
}

type Package struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:64;not null" json:"name"`
	PriceCents int       `gorm:"not null" json:"price_cents"`
	GameCount  int       `gorm:"not null;default:1" json:"game_count"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

type Promo struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Code                 string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Discount             int       `gorm:"not null" json:"discount"`
	DiscountUnit         string    `gorm:"size:16;not null" json:"discount_unit"`
	MaxAmountForDiscount int       `gorm:"not null" json:"max_amount_for_discount"`
	MaxUsage             int       `gorm:"not null;default:1" json:"max_usage"`
	UsedCount            int       `gorm:"not null;default:0" json:"used_count"`
	Active               bool      `gorm:"not null;default:true" json:"active"`
	StartDate            time.Time `gorm:"not null" json:"start_date"`
	EndDate              time.Time `gorm:"not null" json:"end_date"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

type Order struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Reference       string    `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	PackageID       uint      `gorm:"index;not null" json:"package_id"`
	PromoID         *uint     `gorm:"index" json:"promo_id,omitempty"`
	TotalPriceCents int       `gorm:"not null" json:"total_price_cents"`
	FinalPriceCents int       `gorm:"not null" json:"final_price_cents"`
	Status          string    `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	Message   string    `gorm:"size:4096;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
