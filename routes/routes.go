package routes

import (
	"arcade/controllers/battlepass"
	"arcade/controllers/games"
	"arcade/controllers/user"
	"arcade/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	app.Post("/user/register", user.RegisterUser)

	userroutes := app.Group("/user", middlewares.UserAuthMiddleware)
	userroutes.Get("/balance", user.CheckUserBalance)
	userroutes.Post("/balance/reconcile", user.ReconcileBalance)
	userroutes.Post("/fichas/buy", user.BuyFichas)

	gameroutes := app.Group("/games", middlewares.UserAuthMiddleware)
	gameroutes.Post("/roulette/spin", games.SpinRoulette)
	gameroutes.Get("/roulette/history", games.RouletteHistory)

	gameroutes.Get("/boxes/types", games.ListBoxTypes)
	gameroutes.Get("/boxes", games.MyBoxes)
	gameroutes.Post("/boxes/buy", games.BuyBox)
	gameroutes.Post("/boxes/open", games.OpenBox)
	gameroutes.Post("/boxes/reset", games.ResetBox)

	gameroutes.Post("/slots/spin", games.SpinSlots)
	gameroutes.Get("/slots/jackpot", games.SlotJackpot)

	gameroutes.Post("/dice/play", games.PlayDice)

	gameroutes.Post("/fishing/cast", games.CastLine)
	gameroutes.Get("/fishing/rod", games.FishingRod)
	gameroutes.Post("/fishing/bait/buy", games.BuyBait)

	bproutes := app.Group("/battlepass", middlewares.UserAuthMiddleware)
	bproutes.Get("/status", battlepass.Status)
	bproutes.Post("/premium/buy", battlepass.BuyPremium)
	bproutes.Post("/rewards/claim", battlepass.ClaimReward)
	bproutes.Get("/quests", battlepass.ListQuests)
	bproutes.Post("/quests/complete", battlepass.CompleteQuest)

	auditroutes := app.Group("/audit", middlewares.UserAuthMiddleware)
	auditroutes.Get("/spins", games.ExportSpinAudit)
}
