package repository

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"coursehub/internal/config"
	"coursehub/internal/firebase"
	"coursehub/internal/models"
	"coursehub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"

	firebaseAuth "firebase.google.com/go/auth"
)

func (fr *FirebaseRepository) initializeUserProfilesListener() {
	handleDocs := func(docs []*firestore.DocumentSnapshot) error {
		newProfiles := make(map[string]*models.Profile)
		for _, doc := range docs {
			if !doc.Exists() {
				continue
			}

			var profile models.Profile
			err := mapstructure.Decode(doc.Data(), &profile)
			if err != nil {
				return err
			}
			newProfiles[doc.Ref.ID] = &profile
		}

		fr.profilesLock.Lock()
		defer fr.profilesLock.Unlock()
		fr.profiles = newProfiles

		return nil
	}

	done := make(chan bool)
	query := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Query
	go func() {
		err := fr.listenToCollection(query, &done, handleDocs)
		if err != nil {
			log.Panicf("user profiles collection listener error: %v\n", err)
		}
	}()
	<-done
}

// VerifySessionCookie verifies that the given session cookie is valid and returns the associated User if valid.
func (fr *FirebaseRepository) VerifySessionCookie(sessionCookie *http.Cookie) (*models.User, error) {
	decoded, err := fr.authClient.VerifySessionCookieAndCheckRevoked(firebase.Context, sessionCookie.Value)
	if err != nil {
		return nil, fmt.Errorf("error verifying cookie: %v\n", err)
	}

	user, err := fr.GetUserByID(decoded.UID)
	if err != nil {
		return nil, fmt.Errorf("error getting user from cookie: %v\n", err)
	}

	return user, nil
}

func (fr *FirebaseRepository) GetUserByID(id string) (*models.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	fbUser, err := fr.authClient.GetUser(firebase.Context, id)
	if err != nil {
		return nil, qerrors.UserNotFoundError
	}

	// Check the Firebase user's email against the list of allowed domains.
	if len(config.Config.AllowedEmailDomains) > 0 {
		domain := strings.Split(fbUser.Email, "@")[1]
		if !contains(config.Config.AllowedEmailDomains, domain) {
			// invalid email domain, delete the user from Firebase Auth
			_ = fr.authClient.DeleteUser(firebase.Context, fbUser.UID)
			return nil, qerrors.InvalidEmailError
		}
	}

	profile, err := fr.getUserProfile(fbUser.UID)
	if err != nil {
		// no profile for the user found, create one.
		profile = &models.Profile{
			DisplayName: fbUser.DisplayName,
			Email:       fbUser.Email,
			Role:        models.RoleStudent,
		}
		// if there are no registered users, make the first one an admin
		if fr.getUserCount() == 0 {
			profile.Role = models.RoleAdmin
		}
		_, err = fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(fbUser.UID).Set(firebase.Context, map[string]interface{}{
			"displayName":       profile.DisplayName,
			"email":             profile.Email,
			"id":                fbUser.UID,
			"role":              profile.Role,
			"enrolledCourseIds": []string{},
			"learningPathTags":  []string{},
			"notifications":     []map[string]interface{}{},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating user profile: %v\n", err)
		}
	}

	return fbUserToUserRecord(fbUser, profile), nil
}

// GetUserByEmail retrieves the User associated with the given email.
func (fr *FirebaseRepository) GetUserByEmail(email string) (*models.User, error) {
	userID, err := fr.GetIDByEmail(email)
	if err != nil {
		return nil, err
	}

	return fr.GetUserByID(userID)
}

// GetIDByEmail resolves an email address to a user ID. Email uniqueness is
// owned by the identity system; a multi-match here is treated as an error
// rather than resolved to the first match.
func (fr *FirebaseRepository) GetIDByEmail(email string) (string, error) {
	iter := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Where("email", "==", email).Documents(firebase.Context)
	doc, err := iter.Next()
	if err == iterator.Done {
		return "", qerrors.UserNotFoundError
	}
	if err != nil {
		return "", err
	}

	if _, err := iter.Next(); err != iterator.Done {
		return "", qerrors.AmbiguousEmailError
	}

	data := doc.Data()
	return data["id"].(string), nil
}

func (fr *FirebaseRepository) UpdateUser(r *models.UpdateUserRequest) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(r.UserID).Update(firebase.Context, []firestore.Update{
		{
			Path:  "displayName",
			Value: r.DisplayName,
		},
		{
			Path:  "learningPathTags",
			Value: r.LearningPathTags,
		},
	})

	return err
}

func (fr *FirebaseRepository) CreateUser(user *models.CreateUserRequest) (*models.User, error) {
	role := user.Role
	if role == "" {
		role = models.RoleStudent
	}

	// Create a user in Firebase Auth.
	u := (&firebaseAuth.UserToCreate{}).Email(user.Email).Password(user.Password)
	fbUser, err := fr.authClient.CreateUser(firebase.Context, u)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v\n", err)
	}

	// Create a user profile in Firestore.
	profile := &models.Profile{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        role,
	}
	_, err = fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(fbUser.UID).Set(firebase.Context, map[string]interface{}{
		"displayName":       profile.DisplayName,
		"email":             profile.Email,
		"id":                fbUser.UID,
		"role":              profile.Role,
		"enrolledCourseIds": []string{},
		"learningPathTags":  []string{},
		"notifications":     []map[string]interface{}{},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user profile: %v\n", err)
	}

	return fbUserToUserRecord(fbUser, profile), nil
}

// Helpers

// fbUserToUserRecord combines a Firebase UserRecord and a Profile into a User
func fbUserToUserRecord(fbUser *firebaseAuth.UserRecord, profile *models.Profile) *models.User {
	return &models.User{
		ID:                 fbUser.UID,
		Profile:            profile,
		Disabled:           fbUser.Disabled,
		CreationTimestamp:  fbUser.UserMetadata.CreationTimestamp,
		LastLogInTimestamp: fbUser.UserMetadata.LastLogInTimestamp,
	}
}

// getUserProfile gets the Profile from the userProfiles map corresponding to the provided user ID.
func (fr *FirebaseRepository) getUserProfile(id string) (*models.Profile, error) {
	fr.profilesLock.RLock()
	defer fr.profilesLock.RUnlock()

	if val, ok := fr.profiles[id]; ok {
		return val, nil
	} else {
		return nil, fmt.Errorf("No profile found for ID %v\n", id)
	}
}

// getUserCount returns the number of user profiles.
func (fr *FirebaseRepository) getUserCount() int {
	fr.profilesLock.RLock()
	defer fr.profilesLock.RUnlock()

	return len(fr.profiles)
}

func contains(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}

	return false
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("id must be a non-empty string")
	}
	if len(id) > 128 {
		return fmt.Errorf("id string must not be longer than 128 characters")
	}
	return nil
}
