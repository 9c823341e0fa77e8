package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/service_platform"
)

// fakeCampaignStore is an in-memory CampaignStore. Conditional updates hold
// the mutex for the whole check-and-set, mirroring the atomicity the SQL
// UPDATE ... WHERE status guard provides.
type fakeCampaignStore struct {
	mu        sync.Mutex
	campaigns map[string]*models.Campaign
}

func newFakeCampaignStore() *fakeCampaignStore {
	return &fakeCampaignStore{campaigns: make(map[string]*models.Campaign)}
}

func (s *fakeCampaignStore) put(c *models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	s.campaigns[c.ID] = &cp
}

func (s *fakeCampaignStore) Create(c *models.Campaign) error {
	s.put(c)
	return nil
}

func (s *fakeCampaignStore) GetByID(id string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCampaignStore) GetByUserIDAndID(userID, campaignID string) (*models.Campaign, error) {
	c, err := s.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, models.ErrNotFound
	}
	return c, nil
}

func (s *fakeCampaignStore) GetByUserID(userID string) ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Campaign
	for _, c := range s.campaigns {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeCampaignStore) GetAll() ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Campaign
	for _, c := range s.campaigns {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeCampaignStore) GetByStatus(status models.CampaignStatus) ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Campaign
	for _, c := range s.campaigns {
		if c.Status == status {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeCampaignStore) CountByStatus(status models.CampaignStatus) (int64, error) {
	matches, _ := s.GetByStatus(status)
	return int64(len(matches)), nil
}

func (s *fakeCampaignStore) Update(c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[c.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *c
	s.campaigns[c.ID] = &cp
	return nil
}

func (s *fakeCampaignStore) DeleteByUserIDAndID(userID, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if ok && c.UserID == userID {
		delete(s.campaigns, campaignID)
	}
	return nil
}

func (s *fakeCampaignStore) MarkSubmitted(id string, from models.CampaignStatus, submittedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = models.StatusPendingReview
	c.SubmittedAt = &submittedAt
	return true, nil
}

func (s *fakeCampaignStore) CompareAndSwapStatus(id string, from, to models.CampaignStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

func (s *fakeCampaignStore) ActivateWithPlatformIDs(id string, from models.CampaignStatus, metaID, googleID *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = models.StatusActive
	c.MetaCampaignID = metaID
	c.GoogleCampaignID = googleID
	return true, nil
}

func (s *fakeCampaignStore) FinishAndClearPlatformIDs(id string, from, to models.CampaignStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	c.MetaCampaignID = nil
	c.GoogleCampaignID = nil
	return true, nil
}

// fakeApprovalStore enforces the one-open-record-per-campaign constraint the
// way the partial unique index does: a second open record is a creation error.
type fakeApprovalStore struct {
	mu      sync.Mutex
	records []*models.ApprovalRecord
}

func newFakeApprovalStore() *fakeApprovalStore {
	return &fakeApprovalStore{}
}

func (s *fakeApprovalStore) Create(record *models.ApprovalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.CampaignID == record.CampaignID && r.Open() {
			return errors.New("duplicate open approval record")
		}
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	cp := *record
	s.records = append(s.records, &cp)
	return nil
}

func (s *fakeApprovalStore) GetOpenByCampaignID(campaignID string) (*models.ApprovalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.CampaignID == campaignID && r.Open() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeApprovalStore) GetByCampaignID(campaignID string) ([]*models.ApprovalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ApprovalRecord
	for _, r := range s.records {
		if r.CampaignID == campaignID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeApprovalStore) CloseOpen(campaignID string, status models.ApprovalStatus, reviewerID *string, feedback string, reasonCodes models.StringList) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.CampaignID == campaignID && r.Open() {
			now := time.Now()
			r.ReviewedAt = &now
			r.Status = status
			r.ReviewerID = reviewerID
			r.Feedback = feedback
			r.ReasonCodes = append(r.ReasonCodes, reasonCodes...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeApprovalStore) AppendReasonCodes(recordID string, codes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == recordID {
			r.ReasonCodes = append(r.ReasonCodes, codes...)
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByID(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

// fakeAdapter simulates one external platform. Creations are deduped by
// local campaign id like the real adapters' find-before-create.
type fakeAdapter struct {
	platform models.Platform

	mu          sync.Mutex
	createErr   error
	updateErr   error
	created     map[string]string
	createCalls int
	updateCalls []models.PlatformCampaignStatus
}

func newFakeAdapter(platform models.Platform) *fakeAdapter {
	return &fakeAdapter{
		platform: platform,
		created:  make(map[string]string),
	}
}

func (a *fakeAdapter) setCreateErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.createErr = err
}

func (a *fakeAdapter) setUpdateErr(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updateErr = err
}

func (a *fakeAdapter) CreateCampaign(ctx context.Context, campaign *models.Campaign) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.createCalls++
	if id, ok := a.created[campaign.ID]; ok {
		return id, nil
	}
	if a.createErr != nil {
		return "", a.createErr
	}
	id := fmt.Sprintf("%s-%d", a.platform, len(a.created)+1)
	a.created[campaign.ID] = id
	return id, nil
}

func (a *fakeAdapter) UpdateCampaignStatus(ctx context.Context, platformID string, desired models.PlatformCampaignStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.updateErr != nil {
		return a.updateErr
	}
	a.updateCalls = append(a.updateCalls, desired)
	return nil
}

func (a *fakeAdapter) FindCampaignByReference(ctx context.Context, localCampaignID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.created[localCampaignID], nil
}

func (a *fakeAdapter) GetPlatformName() models.Platform {
	return a.platform
}

type fakeAdapterFactory struct {
	adapters map[models.Platform]*fakeAdapter
}

func newFakeAdapterFactory() *fakeAdapterFactory {
	return &fakeAdapterFactory{
		adapters: map[models.Platform]*fakeAdapter{
			models.PlatformMeta:   newFakeAdapter(models.PlatformMeta),
			models.PlatformGoogle: newFakeAdapter(models.PlatformGoogle),
		},
	}
}

func (f *fakeAdapterFactory) CreatePlatformAdapter(platform models.Platform) (service_platform.PlatformAdapterInterface, error) {
	adapter, ok := f.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
	return adapter, nil
}

func (f *fakeAdapterFactory) GetSupportedPlatforms() []models.Platform {
	return []models.Platform{models.PlatformMeta, models.PlatformGoogle}
}

// recordingPublisher captures lifecycle events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishCampaignEvent(event string, campaign *models.Campaign) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) captured() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}
