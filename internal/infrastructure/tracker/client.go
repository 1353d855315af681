// Package tracker is the Azure DevOps work item client used to push ticket
// changes to the external tracker.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/ticketsync/ticketsync/internal/domain/workitem"
	"github.com/ticketsync/ticketsync/internal/shared/config"
	"github.com/ticketsync/ticketsync/internal/shared/constants"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
	"github.com/ticketsync/ticketsync/internal/shared/services/markdown"
	"github.com/ticketsync/ticketsync/internal/shared/utils/logutil"
)

const (
	// devOpsScope is the resource id of Azure DevOps in Entra ID.
	devOpsScope = "499b84ac-1321-427f-aa17-267ca6975798/.default"

	maxResponseSize   = 1 << 20
	maxAttachmentSize = 60 << 20
	maxErrorBodyRunes = 512
)

// Operation names, used as metric labels.
const (
	OpCreate     = "create_work_item"
	OpUpdate     = "update_work_item"
	OpAssign     = "update_operator"
	OpComment    = "add_comment"
	OpAttachment = "add_attachment"
	OpDelete     = "delete_work_item"
)

// RequestObserver receives one observation per tracker call.
type RequestObserver interface {
	ObserveTrackerRequest(operation, outcome string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveTrackerRequest(string, string, time.Duration) {}

// StatusError is returned for non-2xx tracker responses.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tracker %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

type workItemResponse struct {
	ID int `json:"id"`
}

type attachmentResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to one project of one organization.
type Client struct {
	baseURL        string
	apiVersion     string
	pat            string
	attachmentsDir string
	httpClient     *http.Client
	renderer       markdown.MarkdownService
	observer       RequestObserver
	logger         logger.Interface
}

type Option func(*Client)

// WithHTTPClient replaces the transport, typically in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o RequestObserver) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewClient authenticates with the PAT when one is configured and with the
// service principal's client credentials otherwise.
func NewClient(cfg config.TrackerConfig, log logger.Interface, opts ...Option) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("tracker organization_url and project are required")
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.OrganizationURL, "/") + "/" + url.PathEscape(cfg.Project),
		apiVersion:     cfg.APIVersion,
		pat:            cfg.PAT,
		attachmentsDir: cfg.AttachmentsDir,
		renderer:       markdown.NewMarkdownService(),
		observer:       noopObserver{},
		logger:         log,
	}
	if c.apiVersion == "" {
		c.apiVersion = "7.1"
	}

	switch {
	case cfg.PAT != "":
		c.httpClient = &http.Client{Timeout: cfg.Timeout()}
	case cfg.ClientID != "" && cfg.ClientSecret != "" && cfg.TenantID != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL(),
			Scopes:       []string{devOpsScope},
		}
		hc := cc.Client(context.Background())
		hc.Timeout = cfg.Timeout()
		c.httpClient = hc
	default:
		return nil, fmt.Errorf("tracker needs either a pat or tenant_id, client_id and client_secret")
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) CreateWorkItem(ctx context.Context, ticketID uint, draft workitem.Draft) (int, error) {
	ops, err := c.draftOps("add", draft)
	if err != nil {
		return 0, err
	}
	ops = append(ops, patchOp{Op: "add", Path: fieldPath("System.Tags"), Value: workitem.TicketTag(ticketID)})

	endpoint := c.endpoint("/_apis/wit/workitems/$"+url.PathEscape(draft.Type), nil)
	var out workItemResponse
	if err := c.patch(ctx, OpCreate, http.MethodPost, endpoint, ops, &out); err != nil {
		return 0, err
	}
	if out.ID <= 0 {
		return 0, fmt.Errorf("tracker returned no work item id")
	}

	c.logger.Infow("work item created", "work_item_id", out.ID, "ticket_id", ticketID)
	return out.ID, nil
}

func (c *Client) UpdateWorkItem(ctx context.Context, workItemID int, draft workitem.Draft) error {
	ops, err := c.draftOps("add", draft)
	if err != nil {
		return err
	}
	ops = append(ops, patchOp{Op: "add", Path: fieldPath(workitem.FieldWorkItemType), Value: draft.Type})
	return c.patch(ctx, OpUpdate, http.MethodPatch, c.workItemURL(workItemID), ops, nil)
}

func (c *Client) UpdateOperatorOnWorkItem(ctx context.Context, workItemID int, assigneeEmail string) error {
	ops := []patchOp{{Op: "add", Path: fieldPath(workitem.FieldAssignedTo), Value: assigneeEmail}}
	if assigneeEmail == "" {
		ops = []patchOp{{Op: "remove", Path: fieldPath(workitem.FieldAssignedTo)}}
	}
	return c.patch(ctx, OpAssign, http.MethodPatch, c.workItemURL(workItemID), ops, nil)
}

// AddComment appends to the work item discussion through System.History.
func (c *Client) AddComment(ctx context.Context, workItemID int, author, message string) error {
	body, err := c.renderer.ToHTMLSanitized(message)
	if err != nil {
		return err
	}
	if author = strings.TrimSpace(author); author != "" {
		body = workitem.CommentText("<strong>"+markdown.EscapeComment(author)+"</strong>", body)
	}
	ops := []patchOp{{Op: "add", Path: fieldPath(workitem.FieldHistory), Value: body}}
	return c.patch(ctx, OpComment, http.MethodPatch, c.workItemURL(workItemID), ops, nil)
}

// AddAttachment uploads the file and links it to the work item.
func (c *Client) AddAttachment(ctx context.Context, workItemID int, path string) error {
	started := time.Now()
	ref, err := c.upload(ctx, path)
	if err != nil {
		c.observer.ObserveTrackerRequest(OpAttachment, outcomeOf(err), time.Since(started))
		return err
	}

	ops := []patchOp{{
		Op:   "add",
		Path: "/relations/-",
		Value: map[string]interface{}{
			"rel":        "AttachedFile",
			"url":        ref.URL,
			"attributes": map[string]string{"comment": filepath.Base(path)},
		},
	}}
	return c.patch(ctx, OpAttachment, http.MethodPatch, c.workItemURL(workItemID), ops, nil)
}

// DeleteWorkItem treats an already missing work item as deleted.
func (c *Client) DeleteWorkItem(ctx context.Context, workItemID int) error {
	err := c.do(ctx, OpDelete, http.MethodDelete, c.workItemURL(workItemID), "", nil, nil)
	if se, ok := err.(*StatusError); ok && se.StatusCode == http.StatusNotFound {
		c.logger.Warnw("work item already gone", "work_item_id", workItemID)
		return nil
	}
	return err
}

func (c *Client) draftOps(op string, draft workitem.Draft) ([]patchOp, error) {
	description, err := c.renderer.ToHTMLSanitized(draft.Description)
	if err != nil {
		return nil, err
	}
	return []patchOp{
		{Op: op, Path: fieldPath(workitem.FieldTitle), Value: draft.Title},
		{Op: op, Path: fieldPath(workitem.FieldDescription), Value: description},
		{Op: op, Path: fieldPath(workitem.FieldPriority), Value: draft.Priority},
		{Op: op, Path: fieldPath(workitem.FieldState), Value: draft.State},
	}, nil
}

// openAttachment opens path inside the attachments directory. os.Root
// refuses names that escape it, symlinks included.
func (c *Client) openAttachment(path string) (*os.File, error) {
	if c.attachmentsDir == "" {
		return nil, fmt.Errorf("attachments are disabled: tracker.attachments_dir is not set")
	}
	if !filepath.IsLocal(path) {
		return nil, fmt.Errorf("attachment path %q is outside the attachments directory", path)
	}
	root, err := os.OpenRoot(c.attachmentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachments directory: %w", err)
	}
	defer root.Close()

	f, err := root.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return f, nil
}

func (c *Client) upload(ctx context.Context, path string) (*attachmentResponse, error) {
	f, err := c.openAttachment(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.Size() > maxAttachmentSize {
		return nil, fmt.Errorf("attachment %s exceeds %d bytes", filepath.Base(path), maxAttachmentSize)
	}

	endpoint := c.endpoint("/_apis/wit/attachments", url.Values{"fileName": {filepath.Base(path)}})
	var ref attachmentResponse
	if err := c.send(ctx, OpAttachment, http.MethodPost, endpoint, "application/octet-stream", f, &ref); err != nil {
		return nil, err
	}
	if ref.URL == "" {
		return nil, fmt.Errorf("tracker returned no attachment url")
	}
	return &ref, nil
}

func (c *Client) patch(ctx context.Context, operation, method, endpoint string, ops []patchOp, out interface{}) error {
	body, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to encode patch document: %w", err)
	}
	return c.do(ctx, operation, method, endpoint, constants.ContentTypeJSONPatch, bytes.NewReader(body), out)
}

// do sends one request and records its outcome.
func (c *Client) do(ctx context.Context, operation, method, endpoint, contentType string, body io.Reader, out interface{}) error {
	started := time.Now()
	err := c.send(ctx, operation, method, endpoint, contentType, body, out)
	c.observer.ObserveTrackerRequest(operation, outcomeOf(err), time.Since(started))
	if err != nil {
		c.logger.Warnw("tracker request failed", "operation", operation, "error", err)
	}
	return err
}

func (c *Client) send(ctx context.Context, operation, method, endpoint, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build tracker request: %w", err)
	}
	if contentType != "" {
		req.Header.Set(constants.HeaderContentType, contentType)
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if c.pat != "" {
		req.SetBasicAuth("", c.pat)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracker %s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read tracker response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: logutil.TruncateForLog(strings.TrimSpace(string(payload)), maxErrorBodyRunes)}
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", c.apiVersion)
	return c.baseURL + path + "?" + query.Encode()
}

func (c *Client) workItemURL(workItemID int) string {
	return c.endpoint("/_apis/wit/workitems/"+strconv.Itoa(workItemID), nil)
}

func fieldPath(field string) string {
	return "/fields/" + field
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	if se, ok := err.(*StatusError); ok {
		return "http_" + strconv.Itoa(se.StatusCode)
	}
	return "error"
}
