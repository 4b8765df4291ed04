package course

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Article is a rich-text reading lesson
type Article struct {
	gorm.Model
	ModuleID   uint   `json:"module_id" gorm:"index;not null"`
	Title      string `json:"title"`
	BodyMarkup string `json:"body_markup" gorm:"type:text"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false" json:"-"`
}

// Question is a single multiple choice question shown as its own lesson
type Question struct {
	gorm.Model
	ModuleID     uint           `json:"module_id" gorm:"index;not null"`
	PromptMarkup string         `json:"prompt_markup" gorm:"type:text"`
	Options      datatypes.JSON `json:"options"`
	CorrectIndex int            `json:"correct_index" gorm:"default:0"`
	OrderIndex   int            `json:"order_index" gorm:"default:0"`
	IsDeleted    bool           `gorm:"default:false" json:"-"`
}

// Quiz is a practice set or a timed assessment
type Quiz struct {
	gorm.Model
	ModuleID            uint           `json:"module_id" gorm:"index;not null"`
	Title               string         `json:"title"`
	Kind                string         `json:"kind" gorm:"type:varchar(20);default:'practice'"` // practice, assessment
	PassingScorePercent int            `json:"passing_score_percent" gorm:"default:40"`
	TimeLimitMinutes    int            `json:"time_limit_minutes" gorm:"default:0"`
	OrderIndex          int            `json:"order_index" gorm:"default:0"`
	IsDeleted           bool           `gorm:"default:false" json:"-"`
	Questions           []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID"`
}

// QuizQuestion belongs to a quiz and is never a lesson of its own
type QuizQuestion struct {
	gorm.Model
	QuizID       uint           `json:"quiz_id" gorm:"index;not null"`
	PromptMarkup string         `json:"prompt_markup" gorm:"type:text"`
	Options      datatypes.JSON `json:"options"`
	CorrectIndex int            `json:"correct_index" gorm:"default:0"`
	OrderIndex   int            `json:"order_index" gorm:"default:0"`
	IsDeleted    bool           `gorm:"default:false" json:"-"`
}

// PastPaper is a previous-year question with its solution
type PastPaper struct {
	gorm.Model
	ModuleID       uint           `json:"module_id" gorm:"index;not null"`
	YearLabel      string         `json:"year_label"`
	PromptMarkup   string         `json:"prompt_markup" gorm:"type:text"`
	SolutionMarkup string         `json:"solution_markup" gorm:"type:text"`
	Kind           string         `json:"kind" gorm:"type:varchar(20);default:'descriptive'"` // multipleChoice, boolean, descriptive
	Options        datatypes.JSON `json:"options"`
	CorrectIndex   *int           `json:"correct_index"`
	OrderIndex     int            `json:"order_index" gorm:"default:0"`
	IsDeleted      bool           `gorm:"default:false" json:"-"`
}

// EncodeOptions stores answer options as a JSON array column
func EncodeOptions(options []string) datatypes.JSON {
	if options == nil {
		options = []string{}
	}
	raw, _ := json.Marshal(options)
	return datatypes.JSON(raw)
}

// DecodeOptions reads an options column; a malformed value yields no options,
// which scoring treats as an unanswerable question
func DecodeOptions(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil
	}
	return options
}
