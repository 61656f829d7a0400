package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kabadi-client/internal/clock"
	"kabadi-client/internal/domain"
	"kabadi-client/internal/geo"
	"kabadi-client/internal/storage"
)

type fixedGeocoder struct {
	want  string
	at    *domain.Coordinate
	calls int
}

func (g *fixedGeocoder) Resolve(ctx context.Context, addressLine, pincode string) *domain.Coordinate {
	g.calls++
	if addressLine+" "+pincode != g.want {
		return nil
	}
	return g.at
}

func citizenSession(t *testing.T, id int64) *Session {
	t.Helper()
	s := NewSession(storage.NewMemoryStore(), nil)
	require.NoError(t, s.Login(context.Background(), "tok", SessionUser{UserType: domain.UserTypeCitizen, UserID: id, Name: "Asha"}))
	return s
}

type workflowFixture struct {
	citizens   *MockCitizenRepo
	collectors *MockCollectorRepo
	bookings   *MockBookingRepo
	clock      *clock.Fake
	notes      *recordingNotifier
	anchors    *geo.AnchorResolver
	workflow   *BookingWorkflow
}

func newWorkflowFixture(t *testing.T, geocoder geo.Geocoder, locator geo.DeviceLocator) *workflowFixture {
	f := &workflowFixture{
		citizens:   new(MockCitizenRepo),
		collectors: new(MockCollectorRepo),
		bookings:   new(MockBookingRepo),
		clock:      clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)),
		notes:      &recordingNotifier{},
	}
	session := citizenSession(t, 42)
	f.anchors = geo.NewAnchorResolver(geocoder, locator, time.Second)
	f.workflow = NewBookingWorkflow(
		session,
		NewProfileService(f.citizens, nil, session),
		f.anchors,
		NewCartManager(f.notes, sequentialIDs()),
		NewSearchController(f.collectors, f.anchors, f.clock, f.notes, SearchOptions{Policy: BookingRadiusPolicy}),
		NewBookingSubmitter(f.bookings, 4),
		f.notes,
	)
	return f
}

func TestBookingWorkflow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c := domain.Coordinate{Lat: 12.9758, Lng: 77.6045}
	geocoder := &fixedGeocoder{want: "12 MG Road 560001", at: &c}
	f := newWorkflowFixture(t, geocoder, geo.NewStaticLocator(nil))

	f.citizens.On("GetProfile", mock.Anything).Return(&domain.CitizenProfile{ID: 42, AddressLine1: "12 MG Road", Pincode: "560001"}, nil)
	require.NoError(t, f.workflow.Open(ctx))
	assert.Equal(t, "12 MG Road, 560001", f.workflow.Cart().Selection().PickupAddress)
	anchor, ok := f.anchors.Cached()
	require.True(t, ok)
	assert.Equal(t, c, anchor)

	f.collectors.On("FindPriority", mock.Anything, c).Return([]domain.CollectorCandidate{candidate(1, 12.976, 77.605)}, nil)
	f.collectors.On("FindNearby", mock.Anything, c, 5.0).Return([]domain.CollectorCandidate{
		candidate(7, 12.99, 77.62), candidate(8, 12.977, 77.606), candidate(9, 13.0, 77.63),
	}, nil)

	search := f.workflow.Search()
	require.NoError(t, search.StartSearch(ctx))
	assert.Equal(t, PhasePriority, search.State().Phase)
	require.NoError(t, search.SkipPriority(ctx))
	st := search.State()
	assert.Equal(t, PhaseNormal, st.Phase)
	require.Len(t, st.Candidates, 3)
	assert.Equal(t, int64(8), st.Candidates[0].ID)

	_, err := search.Select(8)
	require.NoError(t, err)

	cart := f.workflow.Cart()
	_, err = cart.AddOrUpdateItem(domain.PickupSelection{
		Materials:     []domain.MaterialType{domain.MaterialPlastic, domain.MaterialPaper},
		WeightKg:      ptr(10.0),
		PickupAddress: "12 MG Road, 560001",
	}, "")
	require.NoError(t, err)
	_, err = cart.AddOrUpdateItem(domain.PickupSelection{Materials: []domain.MaterialType{domain.MaterialMetal}}, "")
	require.NoError(t, err)

	var mu sync.Mutex
	var created []*domain.BookingRequest
	f.bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.BookingRequest")).
		Run(func(args mock.Arguments) {
			mu.Lock()
			created = append(created, args.Get(1).(*domain.BookingRequest))
			mu.Unlock()
		}).
		Return(&domain.BookingRecord{ID: 100, Status: domain.BookingStatusPending}, nil)

	res, err := f.workflow.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count())
	f.bookings.AssertNumberOfCalls(t, "Create", 3)

	byMaterial := map[domain.MaterialType]*domain.BookingRequest{}
	for _, r := range created {
		require.NotNil(t, r.KabadiWalaID)
		assert.Equal(t, int64(8), *r.KabadiWalaID)
		assert.Equal(t, int64(42), r.UserID)
		byMaterial[r.MaterialType] = r
	}
	require.Len(t, byMaterial, 3)
	assert.Equal(t, 5.0, *byMaterial[domain.MaterialPlastic].ExpectedWeightKg)
	assert.Equal(t, 5.0, *byMaterial[domain.MaterialPaper].ExpectedWeightKg)
	assert.Nil(t, byMaterial[domain.MaterialMetal].ExpectedWeightKg)
	assert.Nil(t, byMaterial[domain.MaterialMetal].PickupAddress)
	assert.Equal(t, c.Lat, *byMaterial[domain.MaterialPaper].Latitude)

	assert.Equal(t, 0, cart.Len())
	_, ok = search.Selected()
	assert.False(t, ok)
	assert.Equal(t, Notification{Level: NotifySuccess, Message: "3 pickup(s) booked!"}, f.notes.last())
}

func TestBookingWorkflow_OpenFallsBackToDevice(t *testing.T) {
	device := domain.Coordinate{Lat: 19.07, Lng: 72.87}
	f := newWorkflowFixture(t, &fixedGeocoder{want: "nowhere"}, geo.NewStaticLocator(&device))
	f.citizens.On("GetProfile", mock.Anything).Return(&domain.CitizenProfile{AddressLine1: "Flat 3", AddressLine2: "Bandra", Pincode: "400050"}, nil)

	require.NoError(t, f.workflow.Open(context.Background()))
	anchor, ok := f.anchors.Cached()
	require.True(t, ok)
	assert.Equal(t, device, anchor)
	assert.Equal(t, "Flat 3, Bandra, 400050", f.workflow.Cart().Selection().PickupAddress)
}

func TestBookingWorkflow_OpenWithoutAnyLocation(t *testing.T) {
	f := newWorkflowFixture(t, &fixedGeocoder{want: "nowhere"}, geo.NewStaticLocator(nil))
	f.citizens.On("GetProfile", mock.Anything).Return(&domain.CitizenProfile{AddressLine1: "x", Pincode: "560001"}, nil)

	require.NoError(t, f.workflow.Open(context.Background()))
	_, ok := f.anchors.Cached()
	assert.False(t, ok)
	assert.Equal(t, NotifyWarning, f.notes.last().Level)
}

func TestBookingWorkflow_OpenKeepsCachedAnchor(t *testing.T) {
	geocoder := &fixedGeocoder{want: "12 MG Road 560001", at: &domain.Coordinate{Lat: 1, Lng: 1}}
	f := newWorkflowFixture(t, geocoder, nil)
	f.anchors.Set(home)
	f.citizens.On("GetProfile", mock.Anything).Return(&domain.CitizenProfile{AddressLine1: "12 MG Road", Pincode: "560001"}, nil)

	require.NoError(t, f.workflow.Open(context.Background()))
	assert.Equal(t, 0, geocoder.calls)
}

func TestBookingWorkflow_OpenRequiresCitizen(t *testing.T) {
	session := NewSession(storage.NewMemoryStore(), nil)
	require.NoError(t, session.Login(context.Background(), "tok", SessionUser{UserType: domain.UserTypeKabadi, UserID: 5}))
	w := NewBookingWorkflow(session, nil, nil, nil, nil, nil, nil)
	assert.ErrorIs(t, w.Open(context.Background()), ErrForbidden)
}

func TestBookingWorkflow_SubmitGuards(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, nil, nil)

	_, err := f.workflow.Submit(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.workflow.Cart().AddOrUpdateItem(domain.PickupSelection{Materials: []domain.MaterialType{domain.MaterialGlass}}, "")
	require.NoError(t, err)
	_, err = f.workflow.Submit(ctx)
	assert.ErrorIs(t, err, ErrNoCollectorSelected)
	assert.Equal(t, Notification{Level: NotifyError, Message: ErrNoCollectorSelected.Error()}, f.notes.last())
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingWorkflow_SubmitFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, nil, nil)
	f.anchors.Set(home)
	f.collectors.On("FindPriority", mock.Anything, home).Return([]domain.CollectorCandidate{}, nil)
	f.collectors.On("FindNearby", mock.Anything, home, 5.0).Return([]domain.CollectorCandidate{candidate(3, 12.97, 77.59)}, nil)
	require.NoError(t, f.workflow.Search().StartSearch(ctx))
	_, err := f.workflow.Search().Select(3)
	require.NoError(t, err)

	_, err = f.workflow.Cart().AddOrUpdateItem(domain.PickupSelection{
		Materials: []domain.MaterialType{domain.MaterialPaper, domain.MaterialMetal},
		WeightKg:  ptr(4.0),
	}, "")
	require.NoError(t, err)

	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.BookingRequest) bool {
		return r.MaterialType == domain.MaterialPaper
	})).Return(&domain.BookingRecord{ID: 1}, nil)
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.BookingRequest) bool {
		return r.MaterialType == domain.MaterialMetal
	})).Return(nil, errors.New("backend down"))

	res, err := f.workflow.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, res.Count())
	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, 1, f.workflow.Cart().Len())
	_, ok := f.workflow.Search().Selected()
	assert.True(t, ok)
	assert.Equal(t, NotifyError, f.notes.last().Level)
	assert.False(t, f.workflow.Submitting())
}
