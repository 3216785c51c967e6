package auth

import (
	"github.com/gofiber/fiber/v2"
)

// ChatController exposes the assistant interaction history. It sits on
// public paths and uses the GuestResolver, so requests without a valid
// identity degrade instead of failing: reads return an empty collection and
// writes are acknowledged without persisting.
type ChatController struct {
	Logger   Logger
	store    ChatStore
	resolver *GuestResolver
}

func NewChatController(store ChatStore, resolver *GuestResolver) *ChatController {
	return &ChatController{
		Logger:   defLogger{},
		store:    store,
		resolver: resolver,
	}
}

func (cc *ChatController) WithLogger(logger Logger) *ChatController {
	if logger != nil {
		cc.Logger = logger
	}
	return cc
}

// RegisterChatRoutes mounts the history endpoints on the app.
func RegisterChatRoutes(app fiber.Router, controller *ChatController) {
	app.Get("/api/chat/history", controller.HistoryGet)
	app.Post("/api/chat/history", controller.HistoryPost)
}

// HistoryGet returns the caller's saved interactions, or an empty list for
// guests. It never answers with an auth error.
func (cc *ChatController) HistoryGet(c *fiber.Ctx) error {
	userID, ok := cc.resolver.ResolveSubject(c)
	if !ok {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"data": []any{},
		})
	}

	chats, err := cc.store.ListByUser(c.UserContext(), userID)
	if err != nil {
		cc.Logger.Error("Chat history read failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": chats,
	})
}

// ChatSaveRequest payload
type ChatSaveRequest struct {
	Message  string `form:"message" json:"message"`
	Response string `form:"response" json:"response"`
}

// HistoryPost saves one interaction for an authenticated caller. Guests get
// an acknowledgement and nothing is persisted.
func (cc *ChatController) HistoryPost(c *fiber.Ctx) error {
	payload := new(ChatSaveRequest)

	if err := c.BodyParser(payload); err != nil {
		cc.Logger.Error("Chat history parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message and response are required",
		})
	}

	if payload.Message == "" || payload.Response == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message and response are required",
		})
	}

	userID, ok := cc.resolver.ResolveSubject(c)
	if !ok {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Chat not saved (guest mode)",
			"success": true,
		})
	}

	chat, err := cc.store.Create(c.UserContext(), userID, payload.Message, payload.Response)
	if err != nil {
		cc.Logger.Error("Chat history save failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(chat)
}
