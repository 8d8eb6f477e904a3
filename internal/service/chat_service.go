package service

import (
	"context"
	"errors"
	"time"

	"ksg-support-be/internal/constant"
	"ksg-support-be/internal/dto"
	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/repository/specification"
	"ksg-support-be/internal/repository/unitofwork"
	"ksg-support-be/pkg/rag/answer"
	"ksg-support-be/pkg/rag/citation"

	"github.com/google/uuid"
)

const sessionTitleMaxChars = 60

var ErrSessionNotFound = errors.New("session not found or access denied")

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

// chatService owns the conversational surface: sessions, message history,
// and turning a user question into a grounded, cited reply.
type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	answerEngine *answer.Engine
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, answerEngine *answer.Engine) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		answerEngine: answerEngine,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "Unnamed session",
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: chatSession.Id,
		Role:          constant.ChatMessageRoleModel,
		Chat:          constant.ChatSessionGreeting,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SessionResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.SessionResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(chatMessages))
	for i, msg := range chatMessages {
		messageIds[i] = msg.Id
	}

	citationsByMsgId := make(map[uuid.UUID][]citation.Citation)
	if len(messageIds) > 0 {
		stored, err := uow.ChatCitationRepository().FindAllByMessageIds(ctx, messageIds)
		if err != nil {
			return nil, err
		}
		for _, c := range stored {
			citationsByMsgId[c.ChatMessageId] = append(citationsByMsgId[c.ChatMessageId], citation.Citation{
				Filename:  c.Filename,
				Page:      c.Page,
				SourceURL: c.SourceURL,
			})
		}
	}

	resp := make([]*dto.ChatMessageResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
			Citations: citationsByMsgId[msg.Id],
		})
	}

	return resp, nil
}

func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := cs.verifySession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	existing, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: request.ChatSessionId},
	)
	if err != nil {
		return nil, err
	}
	// Only the greeting so far means this is the first user turn; its text
	// becomes the session title.
	updateSessionTitle := len(existing) == 1

	// Answer outside the transaction: retrieval and generation can take
	// seconds and must not hold a DB transaction open.
	result, err := cs.answerEngine.Answer(ctx, request.Message)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: request.ChatSessionId,
		Role:          constant.ChatMessageRoleUser,
		Chat:          request.Message,
		CreatedAt:     now,
	}
	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: request.ChatSessionId,
		Role:          constant.ChatMessageRoleModel,
		Chat:          result.Answer,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	storedCitations := make([]*entity.ChatCitation, 0, len(result.Citations))
	for _, c := range result.Citations {
		storedCitations = append(storedCitations, &entity.ChatCitation{
			Id:            uuid.New(),
			ChatMessageId: modelMessage.Id,
			Filename:      c.Filename,
			Page:          c.Page,
			SourceURL:     c.SourceURL,
			CreatedAt:     now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &modelMessage); err != nil {
		return nil, err
	}
	if len(storedCitations) > 0 {
		if err := uow.ChatCitationRepository().CreateBulk(ctx, storedCitations); err != nil {
			return nil, err
		}
	}

	if updateSessionTitle {
		chatSession.Title = truncateTitle(request.Message)
		chatSession.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ChatSessionId: chatSession.Id,
		Answer:        result.Answer,
		Citations:     result.Citations,
		Sent: &dto.ChatMessageResponse{
			Id:        userMessage.Id,
			Role:      userMessage.Role,
			Chat:      userMessage.Chat,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.ChatMessageResponse{
			Id:        modelMessage.Id,
			Role:      modelMessage.Role,
			Chat:      modelMessage.Chat,
			CreatedAt: modelMessage.CreatedAt,
			Citations: result.Citations,
		},
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.verifySession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatCitationRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

func (cs *chatService) verifySession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	sess, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= sessionTitleMaxChars {
		return message
	}
	return string(runes[:sessionTitleMaxChars]) + "..."
}
