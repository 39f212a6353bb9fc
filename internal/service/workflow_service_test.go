package service

import (
	"errors"
	"testing"
	"time"

	"github.com/inkwell/internal/db"
)

func TestWorkflowApproveFromUnderReview(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	admin := createTestUser(t, gdb, "review-admin", db.RoleAdmin)
	author := createTestUser(t, gdb, "review-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusUnderReview)

	updated, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &admin,
		Action: ActionApprove,
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if updated.Status != db.StatusApproved {
		t.Fatalf("expected status approved, got %s", updated.Status)
	}
	if updated.ApprovedAt == nil {
		t.Fatal("expected approvedAt to be set")
	}

	var audits []db.AuditLog
	if err := gdb.Where("target_type = ? AND target_id = ?", "post", post.ID).Find(&audits).Error; err != nil {
		t.Fatalf("load audit log: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("expected exactly one audit row, got %d", len(audits))
	}
	if audits[0].Status != string(db.StatusApproved) {
		t.Fatalf("expected audit status approved, got %s", audits[0].Status)
	}
	if audits[0].ActorID != admin.ID {
		t.Fatalf("expected audit actor %d, got %d", admin.ID, audits[0].ActorID)
	}
}

func TestWorkflowRejectRequiresReason(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	admin := createTestUser(t, gdb, "reject-admin", db.RoleAdmin)
	author := createTestUser(t, gdb, "reject-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusUnderReview)

	if _, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &admin,
		Action: ActionReject,
	}); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	// 无理由的驳回不应留下任何痕迹
	var auditCount int64
	gdb.Model(&db.AuditLog{}).Count(&auditCount)
	if auditCount != 0 {
		t.Fatalf("expected no audit rows, got %d", auditCount)
	}

	updated, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &admin,
		Action: ActionReject,
		Reason: "需要补充引用来源",
	})
	if err != nil {
		t.Fatalf("reject with reason: %v", err)
	}

	if updated.Status != db.StatusRejected {
		t.Fatalf("expected status rejected, got %s", updated.Status)
	}
	if updated.RejectedAt == nil {
		t.Fatal("expected rejectedAt to be set")
	}
	if updated.RejectionReason != "需要补充引用来源" {
		t.Fatalf("unexpected rejection reason %q", updated.RejectionReason)
	}

	gdb.Model(&db.AuditLog{}).Count(&auditCount)
	if auditCount != 1 {
		t.Fatalf("expected exactly one audit row, got %d", auditCount)
	}
}

func TestWorkflowScheduleRequiresTime(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	admin := createTestUser(t, gdb, "schedule-admin", db.RoleAdmin)
	author := createTestUser(t, gdb, "schedule-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusApproved)

	if _, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &admin,
		Action: ActionSchedule,
	}); !errors.Is(err, ErrScheduleTimeRequired) {
		t.Fatalf("expected ErrScheduleTimeRequired, got %v", err)
	}

	target := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	updated, err := svc.Transition(TransitionInput{
		PostID:      post.ID,
		Actor:       &admin,
		Action:      ActionSchedule,
		ScheduledAt: &target,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if updated.Status != db.StatusScheduled {
		t.Fatalf("expected status scheduled, got %s", updated.Status)
	}
	if updated.ScheduledAt == nil || !updated.ScheduledAt.Equal(target) {
		t.Fatalf("expected scheduledAt %v, got %v", target, updated.ScheduledAt)
	}
}

func TestWorkflowScheduledApprovePromotesToPublished(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	admin := createTestUser(t, gdb, "promote-admin", db.RoleAdmin)
	author := createTestUser(t, gdb, "promote-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusScheduled)

	updated, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &admin,
		Action: ActionApprove,
	})
	if err != nil {
		t.Fatalf("promote scheduled post: %v", err)
	}

	if updated.Status != db.StatusPublished {
		t.Fatalf("expected status published, got %s", updated.Status)
	}
	if updated.PublishedAt == nil {
		t.Fatal("expected publishedAt to be set")
	}
}

func TestWorkflowArchivedIsTerminal(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	admin := createTestUser(t, gdb, "terminal-admin", db.RoleAdmin)
	author := createTestUser(t, gdb, "terminal-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusArchived)

	for _, action := range []Action{ActionApprove, ActionReject, ActionPublish, ActionArchive} {
		input := TransitionInput{PostID: post.ID, Actor: &admin, Action: action, Reason: "理由"}
		if _, err := svc.Transition(input); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("action %s: expected ErrInvalidTransition, got %v", action, err)
		}
	}
}

func TestWorkflowSubmitOwnershipCheck(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	author := createTestUser(t, gdb, "submit-author", db.RoleUser)
	stranger := createTestUser(t, gdb, "submit-stranger", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusDraft)

	if _, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &stranger,
		Action: ActionSubmit,
	}); !errors.Is(err, ErrNotPostOwner) {
		t.Fatalf("expected ErrNotPostOwner, got %v", err)
	}

	updated, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &author,
		Action: ActionSubmit,
	})
	if err != nil {
		t.Fatalf("author submit: %v", err)
	}
	if updated.Status != db.StatusSubmitted {
		t.Fatalf("expected status submitted, got %s", updated.Status)
	}
	if updated.SubmittedAt == nil {
		t.Fatal("expected submittedAt to be set")
	}
}

func TestWorkflowAdminGate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	author := createTestUser(t, gdb, "gate-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusUnderReview)

	if _, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &author,
		Action: ActionApprove,
	}); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}
}

func TestWorkflowReissueAppendsAudit(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	admin := createTestUser(t, gdb, "reissue-admin", db.RoleAdmin)
	author := createTestUser(t, gdb, "reissue-author", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusUnderReview)

	for i := 0; i < 2; i++ {
		if _, err := svc.Transition(TransitionInput{
			PostID: post.ID,
			Actor:  &admin,
			Action: ActionApprove,
		}); err != nil {
			t.Fatalf("approve round %d: %v", i+1, err)
		}
	}

	var auditCount int64
	gdb.Model(&db.AuditLog{}).Count(&auditCount)
	if auditCount != 2 {
		t.Fatalf("expected two audit rows after reissue, got %d", auditCount)
	}
}

func TestWorkflowSubmitByAcceptedCollaborator(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewWorkflowService(gdb)

	author := createTestUser(t, gdb, "collab-author", db.RoleUser)
	collaborator := createTestUser(t, gdb, "collab-user", db.RoleUser)
	post := createTestPost(t, gdb, author.ID, db.StatusDraft)

	now := time.Now()
	if err := gdb.Create(&db.Collaborator{
		PostID:     post.ID,
		UserID:     collaborator.ID,
		Role:       db.CollaboratorCoAuthor,
		CanSubmit:  true,
		InvitedAt:  now,
		AcceptedAt: &now,
	}).Error; err != nil {
		t.Fatalf("create collaborator: %v", err)
	}

	updated, err := svc.Transition(TransitionInput{
		PostID: post.ID,
		Actor:  &collaborator,
		Action: ActionSubmit,
	})
	if err != nil {
		t.Fatalf("collaborator submit: %v", err)
	}
	if updated.Status != db.StatusSubmitted {
		t.Fatalf("expected status submitted, got %s", updated.Status)
	}
}
