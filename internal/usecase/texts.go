package usecase

import "github.com/pranesh-rpo/IrisChat/pkg/local"

// User-visible phrases, grouped here so translations can be added
// without touching handler logic.
var (
	textBrainGlitched = local.NewSet("Ahh my brain glitched~ 🥺 try again please! 💖")
	textServerError   = local.NewSet("Something went wrong on my side~ try again later! 🥺")

	textGreeting = local.NewSet(
		"Hiii! ✨ I'm Iris~ so happy to meet you! 💖\n(type !help to see what I can do or !reset to wipe my memory~)",
	)
	textMemoryWiped = local.NewSet("Memory wiped~ 🤯 I'm brand new! Let's start fresh! ✨💖")

	textDonateFormat = local.NewSet("Support my server bills! 💖\nUPI: %s")
	textDonateUnset  = local.NewSet("Oopsie! Donation info isn't set up yet. 🥺")

	textRoleplayUsage  = local.NewSet("Usage: !roleplay <scenario>\nExample: !roleplay You are a strict math teacher.")
	textRoleplayFormat = local.NewSet("Roleplay mode ON! 🎭✨\nScenario: %s\n(type !normal to stop~)")
	textBackToNormal   = local.NewSet("Back to being me~ your sweet Iris! ✨ hihi 💖")

	// Economy
	textWalletFormat       = local.NewSet("💳 %s's Wallet\nBalance: %d 🌸")
	textDailyClaimedFormat = local.NewSet("🌞 Daily Reward Claimed!\nYou received %d 🌸! Come back tomorrow! 💖")
	textDailyWaitFormat    = local.NewSet("⏳ You've already claimed your daily reward! Come back in %dh %dm.")
	textBegWaitFormat      = local.NewSet("⏳ Stop begging so much! Wait %d seconds.")
	textWorkWaitFormat     = local.NewSet("⏳ You're tired! Rest for %dm %ds before working again.")
	textGambleUsage        = local.NewSet("🎲 Usage: !gamble <amount> or !gamble all")
	textSlotsUsage         = local.NewSet("🎰 Usage: !slots <amount> or !slots all")
	textInvalidAmount      = local.NewSet("❌ Please enter a valid number.")
	textNonPositiveBet     = local.NewSet("❌ You can't bet zero or negative coins!")
	textNotEnoughFormat    = local.NewSet("❌ You don't have enough coins! Balance: %d 🌸")
	textGambleWinFormat    = local.NewSet("🎰 WINNER!\nYou won %d 🌸! 🎉\nNew Balance: %d 🌸")
	textGambleLossFormat   = local.NewSet("🎰 YOU LOST! 😭\nIris took your %d 🌸.\nNew Balance: %d 🌸")
	textPayUsage           = local.NewSet("💸 Usage: Reply to someone with !pay <amount>")
	textPaySelf            = local.NewSet("❌ You can't pay yourself!")
	textPayDoneFormat      = local.NewSet("💸 Payment Successful!\n%s sent %d 🌸 to %s!")
	textNobodyRich         = local.NewSet("No one has any coins yet! 🥺")

	// Moderation
	textAdminsOnly       = local.NewSet("Only admins can use this, cutie! 🥺")
	textWarnTarget       = local.NewSet("Reply to someone to warn them! ⚠️")
	textWarnFormat       = local.NewSet("⚠️ %s has been warned!\nReason: %s\nTotal Warns: %d/%d")
	textWarnBanFormat    = local.NewSet("❌ %s reached the warn limit and was banned! 🔨")
	textMuteTarget       = local.NewSet("Reply to someone to mute them! 🤐")
	textMuteFormat       = local.NewSet("🤐 %s has been muted for %d minutes!")
	textUnmuteFormat     = local.NewSet("✨ %s is no longer muted!")
	textBanFormat        = local.NewSet("🔨 %s has been banned! Good riddance! ✨")
	textKickFormat       = local.NewSet("👟 %s has been kicked!")
	textFilterUsage      = local.NewSet("Usage: !filter <word> or !filter regex:<pattern>")
	textFilterBad        = local.NewSet("❌ Invalid regex pattern!")
	textFilterAddFormat  = local.NewSet("✅ Filter added for: %s")
	textFilterNone       = local.NewSet("No filters set for this chat! 📭")
	textFilteredFormat   = local.NewSet("🚫 That word is blocked in this chat, %s! 🥺")
	textModActionFailure = local.NewSet("Couldn't do that~ maybe I'm missing admin rights? 🥺")
)
