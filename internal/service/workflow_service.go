package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrInvalidAction        = errors.New("unknown workflow action")
	ErrInvalidTransition    = errors.New("transition not allowed from current status")
	ErrReasonRequired       = errors.New("a reason is required to reject a post")
	ErrScheduleTimeRequired = errors.New("a schedule time is required to schedule a post")
	ErrAdminRequired        = errors.New("only admins can perform this action")
	ErrNotPostOwner         = errors.New("caller cannot submit this post")
)

// Action 是工作流允许的操作枚举。
type Action string

// 工作流操作
const (
	ActionSubmit   Action = "submit"
	ActionReview   Action = "review"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionSchedule Action = "schedule"
	ActionPublish  Action = "publish"
	ActionArchive  Action = "archive"
)

// transitions 集中定义状态机：当前状态 → 允许的操作 → 目标状态。
// 同一操作的重复下发是自环，会重写状态并追加新的审计记录。
// archived 是终态，不在表内。
var transitions = map[db.Status]map[Action]db.Status{
	db.StatusDraft: {
		ActionSubmit: db.StatusSubmitted,
	},
	db.StatusSubmitted: {
		ActionReview:  db.StatusUnderReview,
		ActionApprove: db.StatusApproved,
		ActionReject:  db.StatusRejected,
	},
	db.StatusUnderReview: {
		ActionApprove: db.StatusApproved,
		ActionReject:  db.StatusRejected,
	},
	db.StatusApproved: {
		ActionApprove:  db.StatusApproved,
		ActionReject:   db.StatusRejected,
		ActionSchedule: db.StatusScheduled,
		ActionPublish:  db.StatusPublished,
		ActionArchive:  db.StatusArchived,
	},
	// 对已排期文章下发 approve 等同于到点上线
	db.StatusScheduled: {
		ActionApprove:  db.StatusPublished,
		ActionSchedule: db.StatusScheduled,
		ActionPublish:  db.StatusPublished,
	},
	db.StatusPublished: {
		ActionPublish: db.StatusPublished,
		ActionArchive: db.StatusArchived,
	},
	db.StatusRejected: {
		ActionApprove: db.StatusApproved,
		ActionReject:  db.StatusRejected,
	},
}

// TransitionInput 描述一次工作流操作的全部参数。
type TransitionInput struct {
	PostID      uint
	Actor       *db.User
	Action      Action
	Reason      string
	ScheduledAt *time.Time
}

// WorkflowService 负责文章状态机与审计记录。
type WorkflowService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewWorkflowService creates a WorkflowService instance.
func NewWorkflowService(gdb *gorm.DB) *WorkflowService {
	return &WorkflowService{db: gdb, now: time.Now}
}

// WithClock 允许测试注入固定时钟。
func (s *WorkflowService) WithClock(now func() time.Time) *WorkflowService {
	if now != nil {
		s.now = now
	}
	return s
}

// AllowedActions 返回某状态下允许的操作列表，供审校界面渲染。
func AllowedActions(status db.Status) []Action {
	allowed := transitions[status]
	actions := make([]Action, 0, len(allowed))
	for _, action := range []Action{ActionSubmit, ActionReview, ActionApprove, ActionReject, ActionSchedule, ActionPublish, ActionArchive} {
		if _, ok := allowed[action]; ok {
			actions = append(actions, action)
		}
	}
	return actions
}

// Transition 执行一次状态流转：校验权限与参数，重写状态与对应时间戳，
// 并在同一事务内追加一条审计记录。非法流转不会产生任何写入。
func (s *WorkflowService) Transition(input TransitionInput) (*db.Post, error) {
	if input.Actor == nil {
		return nil, ErrAdminRequired
	}

	reason := strings.TrimSpace(input.Reason)

	switch input.Action {
	case ActionSubmit:
		// 仅作者（或具备提交能力的协作者）可以从草稿提交
	case ActionReview, ActionApprove, ActionReject, ActionSchedule, ActionPublish, ActionArchive:
		if input.Actor.Role != db.RoleAdmin {
			return nil, ErrAdminRequired
		}
	default:
		return nil, ErrInvalidAction
	}

	if input.Action == ActionReject && reason == "" {
		return nil, ErrReasonRequired
	}
	if input.Action == ActionSchedule && (input.ScheduledAt == nil || input.ScheduledAt.IsZero()) {
		return nil, ErrScheduleTimeRequired
	}

	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	target, ok := transitions[post.Status][input.Action]
	if !ok {
		return nil, ErrInvalidTransition
	}

	if input.Action == ActionSubmit && !s.canSubmit(&post, input.Actor) {
		return nil, ErrNotPostOwner
	}

	now := s.now()
	updates := map[string]interface{}{"status": string(target)}

	switch target {
	case db.StatusSubmitted:
		updates["submitted_at"] = now
	case db.StatusApproved:
		updates["approved_at"] = now
	case db.StatusRejected:
		updates["rejected_at"] = now
		updates["rejection_reason"] = reason
	case db.StatusScheduled:
		updates["scheduled_at"] = input.ScheduledAt
	case db.StatusPublished:
		updates["published_at"] = now
	}

	entry := db.AuditLog{
		ActorID:    input.Actor.ID,
		TargetType: "post",
		TargetID:   post.ID,
		Action:     string(input.Action),
		Status:     string(target),
		Reason:     reason,
		CreatedAt:  now,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	}); err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// LastAudit 返回文章最近一条审计记录，没有记录时返回 nil。
func (s *WorkflowService) LastAudit(postID uint) (*db.AuditLog, error) {
	var entry db.AuditLog
	err := s.db.Preload("Actor").
		Where("target_type = ? AND target_id = ?", "post", postID).
		Order("created_at desc, id desc").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// AuditTrail 返回文章的全部审计记录，按时间倒序。
func (s *WorkflowService) AuditTrail(postID uint) ([]db.AuditLog, error) {
	var entries []db.AuditLog
	if err := s.db.Preload("Actor").
		Where("target_type = ? AND target_id = ?", "post", postID).
		Order("created_at desc, id desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *WorkflowService) canSubmit(post *db.Post, actor *db.User) bool {
	if post.UserID == actor.ID || actor.Role == db.RoleAdmin {
		return true
	}

	var count int64
	if err := s.db.Model(&db.Collaborator{}).
		Where("post_id = ? AND user_id = ? AND can_submit = ? AND accepted_at IS NOT NULL", post.ID, actor.ID, true).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}
