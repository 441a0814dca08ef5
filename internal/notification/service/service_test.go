package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"praxis/internal/notification/readstate"
	"praxis/internal/notification/sequencer"
	"praxis/internal/visibility/models"
	"praxis/internal/visibility/service"
	"praxis/internal/visibility/store/records"
	"praxis/internal/visibility/store/roster"
	id "praxis/pkg/domain"
	"praxis/pkg/platform/bus"
)

type NotificationSuite struct {
	suite.Suite

	records  *records.InMemory
	notifier *bus.Bus
	seen     readstate.Store
	svc      *Service

	employee models.Principal
	profile  id.ProfileID
}

func TestNotificationSuite(t *testing.T) {
	suite.Run(t, new(NotificationSuite))
}

func (s *NotificationSuite) SetupTest() {
	rs := roster.NewInMemory()
	s.records = records.NewInMemory()
	s.notifier = bus.New()
	s.seen = readstate.NewInMemory(s.notifier)

	visSvc, err := service.New(rs, s.records)
	s.Require().NoError(err)

	svc, err := New(visSvc, s.seen, s.notifier)
	s.Require().NoError(err)
	s.svc = svc

	s.employee = models.Principal{ID: "e1", Role: models.RoleEmployee, CompanyID: "C1"}
	s.profile = "profile-a"
}

func (s *NotificationSuite) addUrgent(msgID string, age time.Duration) {
	s.records.AddMessage(models.SystemMessage{
		ID:        id.MessageID(msgID),
		Title:     "Urgent " + msgID,
		Priority:  models.PriorityUrgent,
		CreatedAt: time.Now().Add(-age),
	})
}

func (s *NotificationSuite) TestOpenPresentsAndBadgeTracksAcknowledgments() {
	s.addUrgent("m1", 2*time.Hour)
	s.addUrgent("m2", time.Hour)

	count, err := s.svc.UnreadCount(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Equal(2, count)

	st, err := s.svc.Open(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Equal(sequencer.PhasePresenting, st.Phase)
	s.Require().NotNil(st.Current)
	s.Equal(id.MessageID("m2"), st.Current.ID, "newest first")

	st, err = s.svc.Next(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Equal(sequencer.PhasePresenting, st.Phase)

	// Acknowledging m2 invalidated the cached badge.
	count, err = s.svc.UnreadCount(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Equal(1, count)

	st, err = s.svc.Next(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Equal(sequencer.PhaseClosed, st.Phase)

	count, err = s.svc.UnreadCount(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *NotificationSuite) TestDismissAllClearsBadge() {
	s.addUrgent("m1", 2*time.Hour)
	s.addUrgent("m2", time.Hour)

	_, err := s.svc.Open(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)

	st, err := s.svc.DismissAll(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Equal(sequencer.PhaseClosed, st.Phase)

	count, err := s.svc.UnreadCount(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *NotificationSuite) TestProfilesTrackReadStateIndependently() {
	s.addUrgent("m1", time.Hour)

	_, err := s.svc.Open(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	_, err = s.svc.Next(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)

	other := id.ProfileID("profile-b")
	count, err := s.svc.UnreadCount(context.Background(), s.employee, other)
	s.Require().NoError(err)
	s.Equal(1, count, "another browser profile has its own acknowledged set")

	st, err := s.svc.Open(context.Background(), s.employee, other)
	s.Require().NoError(err)
	s.Equal(sequencer.PhasePresenting, st.Phase)
}

func (s *NotificationSuite) TestNextBeforeOpenIsRejected() {
	s.addUrgent("m1", time.Hour)

	_, err := s.svc.Next(context.Background(), s.employee, s.profile)
	s.Error(err)
}

func (s *NotificationSuite) TestEmptyProfileRejected() {
	_, err := s.svc.Open(context.Background(), s.employee, "")
	s.Error(err)

	_, err = s.svc.UnreadCount(context.Background(), s.employee, "")
	s.Error(err)
}

func (s *NotificationSuite) TestMachineReusedPerProfile() {
	s.addUrgent("m1", time.Hour)

	_, err := s.svc.Open(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)

	s.Len(s.svc.machines, 1)

	_, err = s.svc.Open(context.Background(), s.employee, s.profile)
	s.Require().NoError(err)
	s.Len(s.svc.machines, 1, "same profile reuses its machine")
}
