package usecase

import (
	"fmt"
	"math/rand"
	"strings"
)

// FunUsecase answers the novelty commands that need no LLM call.
type FunUsecase struct{}

func NewFunUsecase() *FunUsecase {
	return &FunUsecase{}
}

func (f *FunUsecase) EightBall(question string) string {
	replies := []string{
		"yes absolutely!! 💖✨",
		"hmm nope~ 😅",
		"obviously yes, cutie!",
		"the stars say... yes! 🌟",
		"hmm ask me again later~ 🔮",
		"noo I don't think so 😭",
		"yesss go for it! 👑",
		"ehh... that's a no from me ❌",
		"my heart says yes~ 🤝",
		"signs point to yesss 🎯",
		"not right now~ 🌙",
		"without a doubt!! 💕",
		"you already know the answer~ 💖",
	}
	if question == "" {
		question = "your question"
	}
	return fmt.Sprintf("🎱 Q: %s\n\nA: %s", question, replies[rand.Intn(len(replies))])
}

func (f *FunUsecase) Ship(person1, person2 string) string {
	percentage := rand.Intn(101)

	var verdict string
	switch {
	case percentage >= 90:
		verdict = "Soulmates!! Get married already~ 💒💍✨"
	case percentage >= 70:
		verdict = "Ooh this works~ I see it! 👀💕"
	case percentage >= 50:
		verdict = "There's something there~ maybe? 💫"
	case percentage >= 30:
		verdict = "Hmm... maybe in another life~ 😅"
	case percentage >= 10:
		verdict = "Not really seeing it~ sorry! 😶"
	default:
		verdict = "Nope nope nope~ 🚫😭"
	}

	filled := percentage / 10
	bar := strings.Repeat("💖", filled) + strings.Repeat("🤍", 10-filled)
	shipName := person1[:len(person1)/2+1] + person2[len(person2)/2:]

	return fmt.Sprintf(
		"💘 SHIP: %s x %s 💘\n\nShip name: %s\nCompatibility: %d%%\n%s\n\n%s",
		person1, person2, shipName, percentage, bar, verdict,
	)
}

func (f *FunUsecase) Rate(thing string) string {
	rating := rand.Intn(11)

	var comment string
	switch {
	case rating >= 9:
		comment = "Amazing!! Absolutely love it~ 👑✨"
	case rating >= 7:
		comment = "Ooh this is pretty good! 🔥"
	case rating >= 5:
		comment = "It's okay~ not bad! 🤷"
	case rating >= 3:
		comment = "Hmm... could be better~ 😅"
	case rating >= 1:
		comment = "Sorry hun... not great 😭"
	default:
		comment = "Oh no... 🥺 maybe try something else?"
	}

	stars := strings.Repeat("⭐", rating) + strings.Repeat("☆", 10-rating)
	return fmt.Sprintf("📊 Rating: %s\n\n%s\n%d/10 - %s", thing, stars, rating, comment)
}
