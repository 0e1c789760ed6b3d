package routes

import (
	adminController "github.com/InfinitechAdCorp/izakayaadmin/controllers/admin"
	deliveryControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/delivery"
	productcontroller "github.com/InfinitechAdCorp/izakayaadmin/controllers/product"
	reservationControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/reservation"
	testimonialControllers "github.com/InfinitechAdCorp/izakayaadmin/controllers/testimonial"
	"github.com/gin-gonic/gin"
)

// SetupProxyRoutes registers the routes that relay to the backend API.
func SetupProxyRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		api.POST("/delivery-fee", deliveryControllers.DeliveryFee(d.Resolver))
		api.GET("/dashboard", adminController.Dashboard(d.Client, d.Logger))
		api.GET("/product/count", productcontroller.ProductCount(d.Client, d.Logger))

		api.GET("/reservations", reservationControllers.GetReservations(d.Client, d.Logger))
		api.POST("/reservations", reservationControllers.CreateReservation(d.Client, d.Logger))

		testimonials := api.Group("/testimonials")
		{
			testimonials.GET("", testimonialControllers.GetTestimonials(d.Client, d.Logger))
			testimonials.POST("", testimonialControllers.CreateTestimonial(d.Client, d.Logger))
			testimonials.PUT("/:id", testimonialControllers.UpdateTestimonial(d.Client, d.Logger))
			testimonials.DELETE("/:id", testimonialControllers.DeleteTestimonial(d.Client, d.Logger))
		}
	}
}
