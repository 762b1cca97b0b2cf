package service

import (
	"context"
	"encoding/json"
	"fmt"

	"notetree-be/internal/apperror"
	"notetree-be/internal/dto"
	"notetree-be/internal/pkg/logger"
	"notetree-be/internal/repository/specification"
	"notetree-be/internal/repository/unitofwork"
	"notetree-be/pkg/embedding"
	"notetree-be/pkg/markup"
	"notetree-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// embedInputLimit bounds the document handed to the embedding provider
// (roughly 375 tokens, safe for both Gemini and Ollama context windows).
const embedInputLimit = 1500

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			if err := cs.processMessage(ctx, msg); err != nil {
				if apperror.IsExternalUnavailable(err) {
					cs.log.Warn("consumer", "embedding provider unavailable, retrying later", map[string]interface{}{
						"error": err.Error(),
					})
				} else {
					cs.log.Error("consumer", "embed task failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

// processMessage handles one embed task. A nil return acknowledges the
// message; an error requeues it.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) error {
	var payload dto.PublishEmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "dropping malformed embed task", map[string]interface{}{
			"error": err.Error(),
		})
		// malformed messages never become valid, don't retry
		return nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// Active notes only; a note trashed after the task was queued is skipped
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
	if err != nil {
		return fmt.Errorf("fetch note %s for embedding: %w", payload.NoteId, err)
	}
	if note == nil {
		cs.log.Info("consumer", "note gone before embedding, skipping", map[string]interface{}{
			"note_id": payload.NoteId,
		})
		return nil
	}

	if !cs.embeddingProvider.Available() {
		return apperror.ExternalUnavailable("embedding provider unavailable", nil)
	}

	document := fmt.Sprintf("%s\n\n%s", note.Title, markup.StripContent(note.Content))
	document = utils.HeadChunk(document, embedInputLimit)

	res, err := cs.embeddingProvider.Generate(document, embedding.TaskRetrievalDocument)
	if err != nil {
		return apperror.ExternalUnavailable("embedding generation failed", err)
	}

	if err := uow.NoteRepository().UpdateEmbedding(ctx, note.Id, res.Embedding.Values); err != nil {
		return fmt.Errorf("store embedding for note %s: %w", payload.NoteId, err)
	}

	cs.log.Info("consumer", "note indexed", map[string]interface{}{
		"note_id": payload.NoteId,
		"length":  len(document),
	})
	return nil
}
