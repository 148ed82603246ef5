package project

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"wmx/internal/domain"
	"wmx/internal/mail"

	"gorm.io/gorm"
)

type Service struct {
	projects ProjectRepositoryInterface
	users    UserReader
	recorder Recorder
	queue    MailQueue
}

func NewService(projects ProjectRepositoryInterface, users UserReader, recorder Recorder, queue MailQueue) *Service {
	return &Service{projects: projects, users: users, recorder: recorder, queue: queue}
}

func (s *Service) Create(ctx context.Context, actorID int64, req CreateProjectRequest) (*domain.Project, error) {
	if _, err := s.users.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p := &domain.Project{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectPlanning,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, p.ClientID, "project.created", "project", p.ID, p.Name)
	return p, nil
}

// Update applies partial changes. Completion is detected by comparing the
// completed state before and after the change, so re-saving an already
// completed project does not fire the side effects again.
func (s *Service) Update(ctx context.Context, actorID, projectID int64, req UpdateProjectRequest) (*domain.Project, error) {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	wasCompleted := p.IsCompleted()
	prevStatus := p.Status
	prevProgress := p.Progress

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.DueDate != nil {
		p.DueDate = req.DueDate
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, ErrBadProgress
		}
		p.Progress = *req.Progress
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		switch status {
		case domain.ProjectPlanning, domain.ProjectInProgress, domain.ProjectReview, domain.ProjectCompleted:
			p.Status = status
		default:
			return nil, ErrBadStatus
		}
	}

	completedNow := !wasCompleted && p.IsCompleted()
	if completedNow {
		now := time.Now()
		p.CompletedAt = &now
		p.Status = domain.ProjectCompleted
		if p.Progress < 100 {
			p.Progress = 100
		}
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}

	if completedNow {
		s.record(ctx, actorID, p.ClientID, "project.completed", "project", p.ID, p.Name)
		s.notify(ctx, p.ClientID, domain.NotifProjectComplete,
			"Project completed",
			fmt.Sprintf("%s is complete. Thank you for working with us!", p.Name))
		s.queueStatusEmail(p)
	} else if prevStatus != p.Status || prevProgress != p.Progress {
		s.record(ctx, actorID, p.ClientID, "project.updated", "project", p.ID,
			fmt.Sprintf("status=%s progress=%d", p.Status, p.Progress))
		s.notify(ctx, p.ClientID, domain.NotifProjectStatus,
			"Project update",
			fmt.Sprintf("%s is now %s (%d%%)", p.Name, p.Status, p.Progress))
		s.queueStatusEmail(p)
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, actorID, projectID int64) error {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}
	s.record(ctx, actorID, p.ClientID, "project.deleted", "project", p.ID, p.Name)
	return nil
}

// GetForUser returns the project if the caller is an admin or owns it.
func (s *Service) GetForUser(ctx context.Context, userID int64, isAdmin bool, projectID int64) (*domain.Project, error) {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && p.ClientID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListMine(ctx context.Context, clientID int64) ([]domain.Project, error) {
	return s.projects.ListByClient(ctx, clientID)
}

func (s *Service) ListAll(ctx context.Context, page, limit int) ([]domain.Project, int64, error) {
	return s.projects.ListAll(ctx, page, limit)
}

func (s *Service) AddMilestone(ctx context.Context, actorID, projectID int64, req CreateMilestoneRequest) (*domain.Milestone, error) {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	order, err := s.projects.NextMilestoneOrder(ctx, projectID)
	if err != nil {
		return nil, err
	}

	m := &domain.Milestone{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.MilestonePending,
		SortOrder:   order,
		DueDate:     req.DueDate,
	}
	if err := s.projects.CreateMilestone(ctx, m); err != nil {
		return nil, err
	}

	s.record(ctx, actorID, p.ClientID, "milestone.created", "milestone", m.ID, m.Title)
	return m, nil
}

func (s *Service) UpdateMilestone(ctx context.Context, actorID, projectID, milestoneID int64, req UpdateMilestoneRequest) (*domain.Milestone, error) {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	m, err := s.projects.GetMilestone(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.ProjectID != projectID {
		return nil, ErrBadMilestone
	}

	wasCompleted := m.Status == domain.MilestoneCompleted

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.SortOrder != nil {
		m.SortOrder = *req.SortOrder
	}
	if req.DueDate != nil {
		m.DueDate = req.DueDate
	}
	if req.Status != nil {
		status := domain.MilestoneStatus(*req.Status)
		switch status {
		case domain.MilestonePending, domain.MilestoneInProgress, domain.MilestoneCompleted:
			m.Status = status
		default:
			return nil, ErrBadStatus
		}
	}

	if !wasCompleted && m.Status == domain.MilestoneCompleted {
		now := time.Now()
		m.CompletedAt = &now
	}

	if err := s.projects.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}

	if !wasCompleted && m.Status == domain.MilestoneCompleted {
		s.record(ctx, actorID, p.ClientID, "milestone.completed", "milestone", m.ID, m.Title)
		s.notify(ctx, p.ClientID, domain.NotifMilestoneDone,
			"Milestone completed",
			fmt.Sprintf("%s: %s is done", p.Name, m.Title))
	}

	return m, nil
}

func (s *Service) DeleteMilestone(ctx context.Context, actorID, projectID, milestoneID int64) error {
	p, err := s.get(ctx, projectID)
	if err != nil {
		return err
	}

	m, err := s.projects.GetMilestone(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if m.ProjectID != projectID {
		return ErrBadMilestone
	}

	if err := s.projects.DeleteMilestone(ctx, milestoneID); err != nil {
		return err
	}
	s.record(ctx, actorID, p.ClientID, "milestone.deleted", "milestone", m.ID, m.Title)
	return nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) queueStatusEmail(p *domain.Project) {
	s.queue.Push(mail.TemplateProjectStatus, 1, map[string]string{
		"user_id":      strconv.FormatInt(p.ClientID, 10),
		"project_name": p.Name,
		"status":       string(p.Status),
		"progress":     strconv.Itoa(p.Progress),
	})
}

func (s *Service) record(ctx context.Context, actorID, userID int64, action, entity string, entityID int64, detail string) {
	err := s.recorder.CreateActivity(ctx, &domain.ActivityLog{
		ActorID:  actorID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	})
	if err != nil {
		log.Printf("activity_log_failed action=%s entity=%s id=%d err=%v", action, entity, entityID, err)
	}
}

func (s *Service) notify(ctx context.Context, userID int64, notifType, title, body string) {
	err := s.recorder.Create(ctx, &domain.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		log.Printf("notification_failed type=%s user=%d err=%v", notifType, userID, err)
	}
}
