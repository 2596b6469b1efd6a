package repository

import (
	"fmt"
	"log"
	"time"

	"coursehub/internal/firebase"
	"coursehub/internal/models"
	"coursehub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (fr *FirebaseRepository) initializeCoursesListener() {
	handleDocs := func(docs []*firestore.DocumentSnapshot) error {
		newCourses := make(map[string]*models.Course)
		for _, doc := range docs {
			if !doc.Exists() {
				continue
			}

			var c models.Course
			err := mapstructure.Decode(doc.Data(), &c)
			if err != nil {
				return err
			}
			if c.IsDeleted {
				// tombstoned courses are invisible to reads
				continue
			}

			c.ID = doc.Ref.ID
			newCourses[doc.Ref.ID] = &c
		}

		fr.coursesLock.Lock()
		defer fr.coursesLock.Unlock()
		fr.courses = newCourses

		return nil
	}

	done := make(chan bool)
	query := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Query
	go func() {
		err := fr.listenToCollection(query, &done, handleDocs)
		if err != nil {
			log.Panicf("courses collection listener error: %v\n", err)
		}
	}()
	<-done
}

// GetCourseByID gets the Course from the courses map corresponding to the provided course ID.
func (fr *FirebaseRepository) GetCourseByID(ID string) (*models.Course, error) {
	fr.coursesLock.RLock()
	defer fr.coursesLock.RUnlock()

	if val, ok := fr.courses[ID]; ok {
		return val, nil
	} else {
		return nil, qerrors.CourseNotFoundError
	}
}

func (fr *FirebaseRepository) CreateCourse(c *models.CreateCourseRequest) (course *models.Course, err error) {
	course = &models.Course{
		Title:         c.Title,
		Description:   c.Description,
		Tags:          c.Tags,
		InstructorIDs: []string{c.CreatedBy.ID},
	}

	ref, _, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Add(firebase.Context, map[string]interface{}{
		"title":         course.Title,
		"description":   course.Description,
		"tags":          course.Tags,
		"instructorIds": course.InstructorIDs,
		"isDeleted":     false,
		"createdAt":     firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating course: %v\n", err)
	}
	course.ID = ref.ID

	return course, nil
}

func (fr *FirebaseRepository) EditCourse(c *models.EditCourseRequest) error {
	if _, err := fr.GetCourseByID(c.CourseID); err != nil {
		return err
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(c.CourseID).Update(firebase.Context, []firestore.Update{
		{Path: "title", Value: c.Title},
		{Path: "description", Value: c.Description},
		{Path: "tags", Value: c.Tags},
	})
	return commitError(err)
}

// AddInstructor adds an owner to a course, resolved by email.
func (fr *FirebaseRepository) AddInstructor(c *models.AddInstructorRequest) error {
	if _, err := fr.GetCourseByID(c.CourseID); err != nil {
		return err
	}

	user, err := fr.GetUserByEmail(c.Email)
	if err != nil {
		return err
	}
	if user.Role == models.RoleStudent {
		return qerrors.ValidationError
	}

	_, err = fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(c.CourseID).Update(firebase.Context, []firestore.Update{
		{Path: "instructorIds", Value: firestore.ArrayUnion(user.ID)},
	})
	return commitError(err)
}

func (fr *FirebaseRepository) RemoveInstructor(c *models.RemoveInstructorRequest) error {
	if _, err := fr.GetCourseByID(c.CourseID); err != nil {
		return err
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(c.CourseID).Update(firebase.Context, []firestore.Update{
		{Path: "instructorIds", Value: firestore.ArrayRemove(c.UserID)},
	})
	return commitError(err)
}

// DeleteCourse tombstones the course with a single atomic write. Children
// (modules, lessons, quizzes, enrollment records) are garbage-collected
// asynchronously by the reaper, so a crash mid-delete can never leave the
// course readable with orphaned children.
func (fr *FirebaseRepository) DeleteCourse(c *models.DeleteCourseRequest) error {
	if _, err := fr.GetCourseByID(c.CourseID); err != nil {
		return err
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(c.CourseID).Update(firebase.Context, []firestore.Update{
		{Path: "isDeleted", Value: true},
		{Path: "deletedAt", Value: firestore.ServerTimestamp},
	})
	return commitError(err)
}

// Modules and lessons

func (fr *FirebaseRepository) CreateModule(c *models.CreateModuleRequest) (*models.Module, error) {
	if _, err := fr.GetCourseByID(c.CourseID); err != nil {
		return nil, err
	}

	module := &models.Module{Title: c.Title}
	ref, _, err := fr.courseCollection(c.CourseID, models.FirestoreModulesCollection).Add(firebase.Context, map[string]interface{}{
		"title":     module.Title,
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating module: %v", err)
	}
	module.ID = ref.ID

	return module, nil
}

// ListModules returns the course's modules in creation order.
func (fr *FirebaseRepository) ListModules(courseID string) ([]*models.Module, error) {
	if _, err := fr.GetCourseByID(courseID); err != nil {
		return nil, err
	}

	modules := make([]*models.Module, 0)
	iter := fr.courseCollection(courseID, models.FirestoreModulesCollection).OrderBy("createdAt", firestore.Asc).Documents(firebase.Context)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var module models.Module
		if err := mapstructure.Decode(doc.Data(), &module); err != nil {
			return nil, err
		}
		module.ID = doc.Ref.ID
		modules = append(modules, &module)
	}

	return modules, nil
}

func (fr *FirebaseRepository) CreateLesson(c *models.CreateLessonRequest) (*models.Lesson, error) {
	if _, err := fr.GetCourseByID(c.CourseID); err != nil {
		return nil, err
	}

	// Validate the owning module.
	_, err := fr.courseCollection(c.CourseID, models.FirestoreModulesCollection).Doc(c.ModuleID).Get(firebase.Context)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, qerrors.ModuleNotFoundError
		}
		return nil, err
	}

	lesson := &models.Lesson{ModuleID: c.ModuleID, Title: c.Title}
	ref, _, err := fr.courseCollection(c.CourseID, models.FirestoreLessonsCollection).Add(firebase.Context, map[string]interface{}{
		"moduleId":  lesson.ModuleID,
		"title":     lesson.Title,
		"quizId":    "",
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating lesson: %v", err)
	}
	lesson.ID = ref.ID

	return lesson, nil
}

func (fr *FirebaseRepository) EditLesson(c *models.EditLessonRequest) error {
	if _, err := fr.GetLesson(c.CourseID, c.LessonID); err != nil {
		return err
	}

	_, err := fr.courseCollection(c.CourseID, models.FirestoreLessonsCollection).Doc(c.LessonID).Update(firebase.Context, []firestore.Update{
		{Path: "title", Value: c.Title},
	})
	return commitError(err)
}

// DeleteLesson deletes the lesson and, when the lesson owned a quiz, the quiz
// with its attempts and retake grants.
func (fr *FirebaseRepository) DeleteLesson(c *models.DeleteLessonRequest) error {
	lesson, err := fr.GetLesson(c.CourseID, c.LessonID)
	if err != nil {
		return err
	}

	if lesson.QuizID != "" {
		if err := fr.deleteQuizArtifacts(lesson.QuizID); err != nil {
			return err
		}
	}

	_, err = fr.courseCollection(c.CourseID, models.FirestoreLessonsCollection).Doc(c.LessonID).Delete(firebase.Context)
	return commitError(err)
}

func (fr *FirebaseRepository) GetLesson(courseID string, lessonID string) (*models.Lesson, error) {
	doc, err := fr.courseCollection(courseID, models.FirestoreLessonsCollection).Doc(lessonID).Get(firebase.Context)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, qerrors.LessonNotFoundError
		}
		return nil, err
	}

	var lesson models.Lesson
	if err := mapstructure.Decode(doc.Data(), &lesson); err != nil {
		return nil, err
	}
	lesson.ID = doc.Ref.ID

	return &lesson, nil
}

// ListLessons returns the course's lessons in creation order.
func (fr *FirebaseRepository) ListLessons(courseID string) ([]*models.Lesson, error) {
	if _, err := fr.GetCourseByID(courseID); err != nil {
		return nil, err
	}

	lessons := make([]*models.Lesson, 0)
	iter := fr.courseCollection(courseID, models.FirestoreLessonsCollection).OrderBy("createdAt", firestore.Asc).Documents(firebase.Context)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var lesson models.Lesson
		if err := mapstructure.Decode(doc.Data(), &lesson); err != nil {
			return nil, err
		}
		lesson.ID = doc.Ref.ID
		lessons = append(lessons, &lesson)
	}

	return lessons, nil
}

// countLessons returns the total lesson count across all modules of a course.
func (fr *FirebaseRepository) countLessons(courseID string) (int, error) {
	count := 0
	iter := fr.courseCollection(courseID, models.FirestoreLessonsCollection).Documents(firebase.Context)
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}

	return count, nil
}

func (fr *FirebaseRepository) courseCollection(courseID string, collection string) *firestore.CollectionRef {
	return fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(courseID).Collection(collection)
}

// Reaper

// startCourseReaper periodically sweeps tombstoned courses, deleting their
// children before removing the course document itself. Sweeps are best-effort;
// a failed sweep is retried on the next tick.
func (fr *FirebaseRepository) startCourseReaper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	for range ticker.C {
		fr.sweepDeletedCourses()
	}
}

func (fr *FirebaseRepository) sweepDeletedCourses() {
	iter := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Where("isDeleted", "==", true).Documents(firebase.Context)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			glog.Warningf("error querying tombstoned courses: %v\n", err)
			return
		}

		if err := fr.sweepCourse(doc.Ref.ID); err != nil {
			glog.Warningf("error sweeping course %v: %v\n", doc.Ref.ID, err)
			continue
		}
		glog.Infof("reaped course %v\n", doc.Ref.ID)
	}
}

func (fr *FirebaseRepository) sweepCourse(courseID string) error {
	// Lessons first, deleting quiz artifacts along the way.
	lessonIter := fr.courseCollection(courseID, models.FirestoreLessonsCollection).Documents(firebase.Context)
	for {
		doc, err := lessonIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}

		if quizID, ok := doc.Data()["quizId"].(string); ok && quizID != "" {
			if err := fr.deleteQuizArtifacts(quizID); err != nil {
				return err
			}
		}
		if _, err := doc.Ref.Delete(firebase.Context); err != nil {
			return err
		}
	}

	moduleIter := fr.courseCollection(courseID, models.FirestoreModulesCollection).Documents(firebase.Context)
	for {
		doc, err := moduleIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}
		if _, err := doc.Ref.Delete(firebase.Context); err != nil {
			return err
		}
	}

	// Enrollment records go together with their membership cache entry so the
	// membership invariant holds for every student the sweep touches.
	enrollmentIter := fr.courseCollection(courseID, models.FirestoreEnrollmentsCollection).Documents(firebase.Context)
	for {
		doc, err := enrollmentIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}

		batch := fr.firestoreClient.Batch()
		batch.Delete(doc.Ref)
		batch.Update(fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(doc.Ref.ID), []firestore.Update{
			{Path: "enrolledCourseIds", Value: firestore.ArrayRemove(courseID)},
		})
		if _, err := batch.Commit(firebase.Context); err != nil {
			return err
		}
	}

	_, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(courseID).Delete(firebase.Context)
	return err
}
