package repository

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"coursehub/internal/config"
	"coursehub/internal/firebase"
	"coursehub/internal/models"
	"coursehub/internal/qerrors"

	firebaseAuth "firebase.google.com/go/auth"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var Repository *FirebaseRepository

func init() {
	var err error
	Repository, err = NewFirebaseRepository()
	if err != nil {
		log.Panicf("Error creating repository: %v\n", err)
	}

	log.Printf("✅ Successfully created Firebase repository client")
}

type FirebaseRepository struct {
	authClient      *firebaseAuth.Client
	firestoreClient *firestore.Client

	profilesLock *sync.RWMutex
	profiles     map[string]*models.Profile

	coursesLock *sync.RWMutex
	courses     map[string]*models.Course
}

func NewFirebaseRepository() (*FirebaseRepository, error) {
	fr := &FirebaseRepository{
		profilesLock: &sync.RWMutex{},
		profiles:     make(map[string]*models.Profile),
		coursesLock:  &sync.RWMutex{},
		courses:      make(map[string]*models.Course),
	}

	authClient, err := firebase.App.Auth(firebase.Context)
	if err != nil {
		return nil, fmt.Errorf("Auth client error: %v\n", err)
	}
	fr.authClient = authClient

	firestoreClient, err := firebase.App.Firestore(firebase.Context)
	if err != nil {
		return nil, fmt.Errorf("Firestore client error: %v\n", err)
	}
	fr.firestoreClient = firestoreClient

	// Execute the listeners sequentially, in case later listeners need to utilize data fetched
	// by previous listeners
	initFns := []func(){fr.initializeUserProfilesListener, fr.initializeCoursesListener}
	for _, initFn := range initFns {
		initFn()
	}

	go fr.startCourseReaper(config.Config.CourseReaperInterval)

	return fr, nil
}

// listenToCollection attaches a snapshot listener to the given query and
// invokes handleDocs with the full document set on every snapshot. This lets
// us keep an in-memory copy of hot collections, so we don't have to query
// Firestore each time we need to access one.
func (fr *FirebaseRepository) listenToCollection(query firestore.Query, done *chan bool, handleDocs func(docs []*firestore.DocumentSnapshot) error) error {
	it := query.Snapshots(firebase.Context)
	first := true
	for {
		snap, err := it.Next()
		// DeadlineExceeded will be returned when ctx is cancelled.
		if status.Code(err) == codes.DeadlineExceeded {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Snapshots.Next: %v", err)
		}
		if snap != nil {
			docs, err := snap.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("Documents.GetAll: %v", err)
			}
			if err := handleDocs(docs); err != nil {
				return err
			}
		}
		if first {
			first = false
			*done <- true
		}
	}
}

// domainError reports whether err is one of the sentinel errors callers are
// expected to branch on, as opposed to an operational storage failure.
func domainError(err error) bool {
	sentinels := []error{
		qerrors.CourseNotFoundError,
		qerrors.ModuleNotFoundError,
		qerrors.LessonNotFoundError,
		qerrors.UserNotFoundError,
		qerrors.InvalidEmailError,
		qerrors.AmbiguousEmailError,
		qerrors.EnrollmentNotFoundError,
		qerrors.EnrollmentExistsError,
		qerrors.QuizNotFoundError,
		qerrors.QuizExistsError,
		qerrors.QuizLockedError,
		qerrors.AttemptLimitError,
		qerrors.LessonIncompleteError,
		qerrors.PermissionDeniedError,
		qerrors.ValidationError,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

// commitError classifies the result of a batch or transaction commit. Domain
// errors pass through untouched; anything else is reported as the storage
// backend being unavailable, since the store guarantees none of the writes
// applied.
func commitError(err error) error {
	if err == nil || domainError(err) {
		return err
	}

	return qerrors.UnavailableError
}
