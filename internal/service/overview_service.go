package service

import (
	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

// OverviewService 为后台面板提供跨实体的只读聚合。
type OverviewService struct {
	db *gorm.DB
}

// OverviewTotals 汇总各实体总量。
type OverviewTotals struct {
	Users          int64 `json:"users"`
	Posts          int64 `json:"posts"`
	Comments       int64 `json:"comments"`
	ContactQueries int64 `json:"contactQueries"`
	Invites        int64 `json:"invites"`
	Categories     int64 `json:"categories"`
	Tags           int64 `json:"tags"`
}

// OverviewWorkflow 汇总待处理的工作流桶。
type OverviewWorkflow struct {
	AwaitingReview  int64 `json:"awaitingReview"`
	Scheduled       int64 `json:"scheduled"`
	FlaggedComments int64 `json:"flaggedComments"`
	PendingInvites  int64 `json:"pendingInvites"`
	PendingQueries  int64 `json:"pendingQueries"`
}

// OverviewRecent 汇总最近的审批、审计与注册动态。
type OverviewRecent struct {
	Approvals []db.AuditLog `json:"approvals"`
	AuditLog  []db.AuditLog `json:"auditLog"`
	NewUsers  []db.User     `json:"newUsers"`
}

// ReactionShare 描述某一表态类型的占比数据。
type ReactionShare struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// OverviewTrends 汇总趋势数据：热门分类/标签与表态分布。
type OverviewTrends struct {
	TopCategories []CategoryUsage `json:"topCategories"`
	TopTags       []TagUsage      `json:"topTags"`
	Reactions     []ReactionShare `json:"reactions"`
}

// Overview 是后台面板的完整数据集。
type Overview struct {
	Totals   OverviewTotals   `json:"totals"`
	Workflow OverviewWorkflow `json:"workflow"`
	Recent   OverviewRecent   `json:"recent"`
	Trends   OverviewTrends   `json:"trends"`
}

// NewOverviewService creates an OverviewService instance.
func NewOverviewService(gdb *gorm.DB) *OverviewService {
	return &OverviewService{db: gdb}
}

// Build 跑完全部聚合查询并组装面板数据，纯读不写。
func (s *OverviewService) Build() (*Overview, error) {
	overview := &Overview{}

	if err := s.totals(&overview.Totals); err != nil {
		return nil, err
	}
	if err := s.workflow(&overview.Workflow); err != nil {
		return nil, err
	}
	if err := s.recent(&overview.Recent); err != nil {
		return nil, err
	}
	if err := s.trends(&overview.Trends); err != nil {
		return nil, err
	}

	return overview, nil
}

func (s *OverviewService) totals(totals *OverviewTotals) error {
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&db.User{}, &totals.Users},
		{&db.Post{}, &totals.Posts},
		{&db.Comment{}, &totals.Comments},
		{&db.ContactQuery{}, &totals.ContactQueries},
		{&db.Collaborator{}, &totals.Invites},
		{&db.Category{}, &totals.Categories},
		{&db.Tag{}, &totals.Tags},
	}
	for _, entry := range counts {
		if err := s.db.Model(entry.model).Count(entry.dst).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *OverviewService) workflow(workflow *OverviewWorkflow) error {
	if err := s.db.Model(&db.Post{}).
		Where("status IN ?", []string{string(db.StatusSubmitted), string(db.StatusUnderReview)}).
		Count(&workflow.AwaitingReview).Error; err != nil {
		return err
	}
	if err := s.db.Model(&db.Post{}).
		Where("status = ?", db.StatusScheduled).
		Count(&workflow.Scheduled).Error; err != nil {
		return err
	}
	if err := s.db.Model(&db.Comment{}).
		Where("status = ?", db.CommentFlagged).
		Count(&workflow.FlaggedComments).Error; err != nil {
		return err
	}
	if err := s.db.Model(&db.Collaborator{}).
		Where("accepted_at IS NULL").
		Count(&workflow.PendingInvites).Error; err != nil {
		return err
	}
	return s.db.Model(&db.ContactQuery{}).
		Where("status = ?", db.ContactPending).
		Count(&workflow.PendingQueries).Error
}

func (s *OverviewService) recent(recent *OverviewRecent) error {
	if err := s.db.Preload("Actor").
		Where("status = ?", db.StatusApproved).
		Order("created_at desc, id desc").
		Limit(5).
		Find(&recent.Approvals).Error; err != nil {
		return err
	}
	if err := s.db.Preload("Actor").
		Order("created_at desc, id desc").
		Limit(10).
		Find(&recent.AuditLog).Error; err != nil {
		return err
	}
	return s.db.
		Order("created_at desc, id desc").
		Limit(5).
		Find(&recent.NewUsers).Error
}

func (s *OverviewService) trends(trends *OverviewTrends) error {
	if err := s.db.Table("categories").
		Select("categories.id, categories.name, COUNT(post_categories.post_id) AS count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Where("categories.deleted_at IS NULL").
		Group("categories.id, categories.name").
		Order("count desc").
		Limit(5).
		Scan(&trends.TopCategories).Error; err != nil {
		return err
	}

	if err := s.db.Table("tags").
		Select("tags.id, tags.name, tags.slug, COUNT(post_tags.post_id) AS count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name, tags.slug").
		Order("count desc").
		Limit(5).
		Scan(&trends.TopTags).Error; err != nil {
		return err
	}

	return s.db.Model(&db.Reaction{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("count desc").
		Scan(&trends.Reactions).Error
}
