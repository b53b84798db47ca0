package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/textgen"
	"go-blog-ai/internal/util"
	"go-blog-ai/pkg/apierror"
)

type GenerationService struct {
	accounts  AccountStore
	gate      Authorizer
	generator textgen.Generator
	timeout   time.Duration
}

func NewGenerationService(accounts AccountStore, gate Authorizer, generator textgen.Generator, timeout time.Duration) *GenerationService {
	return &GenerationService{accounts: accounts, gate: gate, generator: generator, timeout: timeout}
}

// Ideas asks the model for blog titles about topic. One generation is
// consumed up front and refunded if the model fails or returns nothing
// usable.
func (s *GenerationService) Ideas(ctx context.Context, subject model.Subject, req model.GenerateIdeasRequest) (model.IdeasResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return model.IdeasResult{}, validationError("topic is required", "topic")
	}

	var result model.IdeasResult
	quota, err := s.withQuota(ctx, subject, textgen.IdeasPrompt(topic, req.Keywords), func(text string) error {
		topics := textgen.ParseTopics(text)
		if len(topics) == 0 {
			return fmt.Errorf("no topics in model output")
		}

		result.Topics = topics
		if len(topics) < textgen.MaxTopics {
			result.Partial = true
			result.Message = fmt.Sprintf("Only generated %d topics. You may want to retry for a full set of %d.", len(topics), textgen.MaxTopics)
		}
		return nil
	})
	if err != nil {
		return model.IdeasResult{}, err
	}

	result.Remaining = quota.Left
	return result, nil
}

func (s *GenerationService) Draft(ctx context.Context, subject model.Subject, req model.GenerateDraftRequest) (model.DraftResult, error) {
	title := util.CleanText(req.Title)
	if title == "" {
		return model.DraftResult{}, validationError("title is required", "title")
	}

	result := model.DraftResult{Title: title}
	quota, err := s.withQuota(ctx, subject, textgen.DraftPrompt(title, req.Keywords), func(text string) error {
		result.Content = strings.TrimSpace(text)
		result.WordCount = util.WordCount(result.Content)
		return nil
	})
	if err != nil {
		return model.DraftResult{}, err
	}

	result.Remaining = quota.Left
	return result, nil
}

// withQuota consumes one generation, runs the prompt and hands the output
// to accept. Any failure after consumption refunds the generation.
func (s *GenerationService) withQuota(ctx context.Context, subject model.Subject, prompt string, accept func(text string) error) (model.Quota, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionCreateContent}); err != nil {
		return model.Quota{}, err
	}

	quota, err := s.accounts.ConsumeGeneration(ctx, subject.ID)
	if err != nil {
		return model.Quota{}, err
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(genCtx, prompt)
	if err == nil {
		err = accept(text)
	}
	if err != nil {
		slog.Warn("text generation failed", "account_id", subject.ID, "error", err)
		return model.Quota{}, s.refund(ctx, subject.ID)
	}

	return quota, nil
}

func (s *GenerationService) refund(ctx context.Context, accountID string) error {
	if _, err := s.accounts.RefundGeneration(context.WithoutCancel(ctx), accountID); err != nil {
		slog.Error("generation refund failed", "account_id", accountID, "error", err)
	}

	return apierror.Wrap(model.ErrUpstreamFailure, "UPSTREAM_FAILURE", "failed to generate content, please try again", http.StatusBadGateway).Retryable()
}
