/* Copyright 2025 Medtrack Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client provides interfaces for interacting with the remote store
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medtrack/medtrack/pkg/cli/context"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

// ErrContentTypeMismatch is an error for a response that is not JSON
var ErrContentTypeMismatch = errors.New("content type mismatch")

// ErrNoSession is an error for an authorized request made without a session
var ErrNoSession = errors.New("no session key found")

// HTTPError represents an HTTP error response from the server
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsUnauthorized returns true if the server rejected the session
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound returns true if the remote document does not exist
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

var contentTypeApplicationJSON = "application/json"

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting
func NewRateLimitedHTTPClient() *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
	}
}

func getHTTPClient(ctx context.MedtrackCtx) *http.Client {
	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{}
}

func getReq(ctx context.MedtrackCtx, path, method string, body io.Reader) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("Client-Version", ctx.Version)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	if ctx.SessionKey != "" {
		credential := fmt.Sprintf("Bearer %s", ctx.SessionKey)
		req.Header.Set("Authorization", credential)
	}

	return req, nil
}

// checkRespErr checks if the given http response indicates an error and
// decodes the error message
func checkRespErr(res *http.Response) error {
	if res.StatusCode < 400 {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	return &HTTPError{
		StatusCode: res.StatusCode,
		Message:    strings.TrimRight(string(body), "\n"),
	}
}

func checkContentType(res *http.Response) error {
	got := res.Header.Get("Content-Type")
	if !strings.HasPrefix(got, contentTypeApplicationJSON) {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, contentTypeApplicationJSON)
	}

	return nil
}

// doReq does a http request to the given path in the api endpoint and
// decodes the JSON response into dest, unless dest is nil
func doReq(ctx context.MedtrackCtx, method, path string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshaling payload")
		}

		body = strings.NewReader(string(b))
	}

	req, err := getReq(ctx, path, method, body)
	if err != nil {
		return errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	res, err := getHTTPClient(ctx).Do(req)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	log.Debug("HTTP %s\n", res.Status)

	if err = checkRespErr(res); err != nil {
		return errors.Wrap(err, "server responded with an error")
	}

	if dest == nil {
		return nil
	}

	if err = checkContentType(res); err != nil {
		return errors.Wrap(err, "unexpected Content-Type")
	}

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return errors.Wrap(err, "decoding response payload")
	}

	return nil
}

// doAuthorizedReq does a http request to the given path in the api endpoint as a user,
// with the appropriate headers. The given path should include the preceding slash.
func doAuthorizedReq(ctx context.MedtrackCtx, method, path string, payload, dest interface{}) error {
	if ctx.SessionKey == "" {
		return ErrNoSession
	}

	return doReq(ctx, method, path, payload, dest)
}

func userPath(ctx context.MedtrackCtx, collection string, segments ...string) string {
	p := fmt.Sprintf("/v1/users/%s/%s", url.PathEscape(ctx.UserUUID), collection)
	for _, s := range segments {
		p = fmt.Sprintf("%s/%s", p, url.PathEscape(s))
	}

	return p
}

// SessionResp is the response of the session endpoints
type SessionResp struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
	UserUUID  string `json:"user_uuid"`
}

// CreateAnonymousSession creates an anonymous user along with a session
func CreateAnonymousSession(ctx context.MedtrackCtx) (SessionResp, error) {
	var resp SessionResp
	if err := doReq(ctx, "POST", "/v1/sessions/anonymous", nil, &resp); err != nil {
		return resp, errors.Wrap(err, "creating an anonymous session")
	}

	return resp, nil
}

// SigninPayload is a payload for /v1/signin and /v1/signup
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin requests a session token for an account
func Signin(ctx context.MedtrackCtx, email, password string) (SessionResp, error) {
	var resp SessionResp

	err := doReq(ctx, "POST", "/v1/signin", SigninPayload{Email: email, Password: password}, &resp)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsUnauthorized() {
			return resp, ErrInvalidLogin
		}

		return resp, errors.Wrap(err, "signing in")
	}

	return resp, nil
}

// Signup creates an account and requests a session token for it
func Signup(ctx context.MedtrackCtx, email, password string) (SessionResp, error) {
	var resp SessionResp
	if err := doReq(ctx, "POST", "/v1/signup", SigninPayload{Email: email, Password: password}, &resp); err != nil {
		return resp, errors.Wrap(err, "signing up")
	}

	return resp, nil
}

// Signout deletes the session on the server side
func Signout(ctx context.MedtrackCtx) error {
	if err := doAuthorizedReq(ctx, "POST", "/v1/signout", nil, nil); err != nil {
		return errors.Wrap(err, "signing out")
	}

	return nil
}

// MedicationPayload is a payload for creating a medication document
type MedicationPayload struct {
	Name                string `json:"name"`
	Dosage              string `json:"dosage"`
	Notes               string `json:"notes"`
	FirstDoseTime       string `json:"first_dose_time"`
	Frequency           string `json:"frequency"`
	CustomIntervalHours *int   `json:"custom_interval_hours"`
	Active              bool   `json:"active"`
	StartDate           string `json:"start_date"`
	LocalTimestamp      string `json:"local_timestamp"`
	Origin              string `json:"origin"`
}

// RespMedication is a medication document in a response
type RespMedication struct {
	UUID                string    `json:"uuid"`
	Name                string    `json:"name"`
	Dosage              string    `json:"dosage"`
	Notes               string    `json:"notes"`
	FirstDoseTime       string    `json:"first_dose_time"`
	Frequency           string    `json:"frequency"`
	CustomIntervalHours *int      `json:"custom_interval_hours"`
	Active              bool      `json:"active"`
	StartDate           string    `json:"start_date"`
	LocalTimestamp      string    `json:"local_timestamp"`
	Origin              string    `json:"origin"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MedicationResp is the response of the medication endpoints
type MedicationResp struct {
	Medication RespMedication `json:"medication"`
}

// CreateMedication creates a medication document
func CreateMedication(ctx context.MedtrackCtx, payload MedicationPayload) (MedicationResp, error) {
	var resp MedicationResp
	if err := doAuthorizedReq(ctx, "POST", userPath(ctx, "medications"), payload, &resp); err != nil {
		return resp, errors.Wrap(err, "posting a medication to the server")
	}

	return resp, nil
}

type updateMedicationPayload struct {
	Active         *bool  `json:"active"`
	LocalTimestamp string `json:"local_timestamp"`
}

// UpdateMedicationStatus updates the active flag of a medication document
func UpdateMedicationStatus(ctx context.MedtrackCtx, uuid string, active bool, localTimestamp string) (MedicationResp, error) {
	payload := updateMedicationPayload{
		Active:         &active,
		LocalTimestamp: localTimestamp,
	}

	var resp MedicationResp
	if err := doAuthorizedReq(ctx, "PATCH", userPath(ctx, "medications", uuid), payload, &resp); err != nil {
		return resp, errors.Wrap(err, "patching a medication on the server")
	}

	return resp, nil
}

// DeleteMedication deletes a medication document
func DeleteMedication(ctx context.MedtrackCtx, uuid string) (MedicationResp, error) {
	var resp MedicationResp
	if err := doAuthorizedReq(ctx, "DELETE", userPath(ctx, "medications", uuid), nil, &resp); err != nil {
		return resp, errors.Wrap(err, "deleting a medication on the server")
	}

	return resp, nil
}

// RecordPayload is a payload for creating a daily record document
type RecordPayload struct {
	Text           string `json:"text"`
	LocalTimestamp string `json:"local_timestamp"`
	Origin         string `json:"origin"`
}

// RespRecord is a daily record document in a response
type RespRecord struct {
	UUID           string    `json:"uuid"`
	Text           string    `json:"text"`
	LocalTimestamp string    `json:"local_timestamp"`
	Origin         string    `json:"origin"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordResp is the response of the record endpoints
type RecordResp struct {
	Record RespRecord `json:"record"`
}

// CreateRecord creates a daily record document
func CreateRecord(ctx context.MedtrackCtx, payload RecordPayload) (RecordResp, error) {
	var resp RecordResp
	if err := doAuthorizedReq(ctx, "POST", userPath(ctx, "records"), payload, &resp); err != nil {
		return resp, errors.Wrap(err, "posting a record to the server")
	}

	return resp, nil
}

// DeleteRecord deletes a daily record document
func DeleteRecord(ctx context.MedtrackCtx, uuid string) (RecordResp, error) {
	var resp RecordResp
	if err := doAuthorizedReq(ctx, "DELETE", userPath(ctx, "records", uuid), nil, &resp); err != nil {
		return resp, errors.Wrap(err, "deleting a record on the server")
	}

	return resp, nil
}

// IntakePayload is a payload for appending an intake event
type IntakePayload struct {
	MedicationUUID string `json:"medication_uuid,omitempty"`
	MedicationName string `json:"medication_name"`
	Date           string `json:"date"`
	ScheduledTime  string `json:"scheduled_time"`
	Taken          bool   `json:"taken"`
	TakenTime      string `json:"taken_time"`
	LocalTimestamp string `json:"local_timestamp"`
	Origin         string `json:"origin"`
}

// RespIntake is an intake event in a response
type RespIntake struct {
	UUID           string    `json:"uuid"`
	MedicationUUID string    `json:"medication_uuid"`
	MedicationName string    `json:"medication_name"`
	Date           string    `json:"date"`
	ScheduledTime  string    `json:"scheduled_time"`
	Taken          bool      `json:"taken"`
	TakenTime      string    `json:"taken_time"`
	LocalTimestamp string    `json:"local_timestamp"`
	Origin         string    `json:"origin"`
	CreatedAt      time.Time `json:"created_at"`
}

// IntakeResp is the response of the create intake endpoint
type IntakeResp struct {
	Intake RespIntake `json:"intake"`
}

// CreateIntake appends an intake event
func CreateIntake(ctx context.MedtrackCtx, payload IntakePayload) (IntakeResp, error) {
	var resp IntakeResp
	if err := doAuthorizedReq(ctx, "POST", userPath(ctx, "intakes"), payload, &resp); err != nil {
		return resp, errors.Wrap(err, "posting an intake to the server")
	}

	return resp, nil
}

// GetIntakesResp is the response of the list intakes endpoint
type GetIntakesResp struct {
	Intakes []RespIntake `json:"intakes"`
}

// GetIntakes lists the intake events dated between from and to inclusive
func GetIntakes(ctx context.MedtrackCtx, from, to string) (GetIntakesResp, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	var resp GetIntakesResp
	if err := doAuthorizedReq(ctx, "GET", userPath(ctx, "intakes")+"?"+q.Encode(), nil, &resp); err != nil {
		return resp, errors.Wrap(err, "getting intakes from the server")
	}

	return resp, nil
}
