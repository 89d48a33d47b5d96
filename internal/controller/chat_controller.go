package controller

import (
	"bufio"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateThread(ctx *fiber.Ctx) error
	GetAllThreads(ctx *fiber.Ctx) error
	GetThreadHistory(ctx *fiber.Ctx) error
	DeleteThread(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetCitation(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("thread", c.CreateThread)
	h.Get("threads", c.GetAllThreads)
	h.Get("thread/:id", c.GetThreadHistory)
	h.Delete("thread/:id", c.DeleteThread)
	h.Post("send", c.SendChat)
	h.Get("citation/:id", c.GetCitation)
}

func (c *chatController) CreateThread(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.chatService.CreateThread(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create thread", res))
}

func (c *chatController) GetAllThreads(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.chatService.GetAllThreads(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get threads", res))
}

func (c *chatController) GetThreadHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid thread id.")
	}

	res, err := c.chatService.GetThreadHistory(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get thread history", res))
}

func (c *chatController) DeleteThread(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid thread id.")
	}

	req := dto.DeleteThreadRequest{ChatThreadId: id}
	if err := c.chatService.DeleteThread(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete thread", nil))
}

// SendChat streams the assistant reply as plain text chunks. The response
// body stays open until the completion finishes or dies.
func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	completion, err := c.chatService.SendChat(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("X-Accel-Buffering", "no")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		clientGone := false
		for token := range completion.Tokens() {
			if clientGone {
				continue // drain so the exchange still persists
			}
			if _, err := w.WriteString(token); err != nil {
				clientGone = true
				continue
			}
			if err := w.Flush(); err != nil {
				clientGone = true
			}
		}
		_ = completion.Err()
	}))

	return nil
}

func (c *chatController) GetCitation(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid citation id.")
	}

	res, err := c.chatService.ResolveCitation(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get citation", res))
}
