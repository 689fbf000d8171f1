package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alnoorcollection/storefront/internal/service"
	"github.com/alnoorcollection/storefront/internal/transport/http/handler"
	"github.com/alnoorcollection/storefront/internal/transport/http/middleware"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	Catalog        *handler.CatalogHandler
	Cart           *handler.CartHandler
	Checkout       *handler.CheckoutHandler
	PaymentMethods *handler.PaymentMethodHandler
	Orders         *handler.OrderAdminHandler
	Messages       *handler.MessageHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, auth service.AdminAuthService) {
	api := app.Group("/api")

	api.Get("/products", h.Catalog.ListProducts)
	api.Get("/products/:id", h.Catalog.FindByID)

	cart := api.Group("/cart")
	cart.Get("", h.Cart.GetCart)
	cart.Post("/items", h.Cart.AddItem)
	cart.Patch("/items/:productId", h.Cart.UpdateQuantity)
	cart.Delete("", h.Cart.ClearCart)

	api.Get("/payment-methods", h.PaymentMethods.ListForStorefront)
	api.Post("/checkout", h.Checkout.PlaceOrder)
	api.Post("/contact", h.Messages.Submit)

	api.Post("/admin/login", h.Auth.Login)

	admin := api.Group("/admin", middleware.NewAdminAuthMiddleware(auth))

	admin.Post("/products", h.Catalog.Create)
	admin.Patch("/products/:id", h.Catalog.Update)
	admin.Delete("/products/:id", h.Catalog.DeleteProduct)

	methods := admin.Group("/payment-methods")
	methods.Get("", h.PaymentMethods.ListAll)
	methods.Post("", h.PaymentMethods.Create)
	methods.Patch("/:id/enabled", h.PaymentMethods.SetEnabled)
	methods.Patch("/:id/account-number", h.PaymentMethods.UpdateAccountNumber)
	methods.Post("/:id/qr-code", h.PaymentMethods.UploadQRCode)
	methods.Delete("/:id/qr-code", h.PaymentMethods.RemoveQRCode)

	orders := admin.Group("/orders")
	orders.Get("", h.Orders.List)
	orders.Get("/:id", h.Orders.GetByID)
	orders.Patch("/:id/status", h.Orders.ChangeStatus)

	messages := admin.Group("/messages")
	messages.Get("", h.Messages.List)
	messages.Get("/:id", h.Messages.GetByID)
	messages.Patch("/:id/status", h.Messages.ChangeStatus)
	messages.Delete("/:id", h.Messages.Delete)
}
