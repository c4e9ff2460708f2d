package telegram

// translations is the uz/ru/en interface text table. Uzbek is the
// fallback language; an unknown key renders as itself so a missing entry
// is visible instead of blank.
var translations = map[string]map[string]string{
	"uz": {
		"start_message":    "👋 Assalomu alaykum! Aviatsiya test botiga xush kelibsiz!",
		"choose_subject":   "📚 Fanni tanlang:",
		"aviation":         "✈️ Aviatsiya",
		"aviation_general": "🛩 Umumiy aviatsiya",
		"meteorology":      "🌦 Meteorologiya",
		"navigation":       "🧭 Navigatsiya",
		"choose_language":  "🌍 Tilni o'zgartirish",
		"question":         "Savol",
		"correct_answers":  "To'g'ri javoblar",
		"back":             "⬅️ Orqaga",
		"forward":          "➡️ Oldinga",
		"restart":          "🔄 Qayta boshlash",
		"back_to_menu":     "🏠 Asosiy menyu",
		"test_starting":    "📝 Test boshlanmoqda...",
		"correct_answer":   "✅ To'g'ri! 🎉",
		"wrong_answer":     "❌ Noto'g'ri! To'g'ri javob:",
		"test_completed":   "Test tugadi!",
		"final_result":     "Yakuniy natija",
		"excellent":        "🏆 A'lo! Siz zo'r bilimga egasiz!",
		"good":             "👍 Yaxshi natija!",
		"satisfactory":     "🙂 Qoniqarli. Yana mashq qiling!",
		"poor":             "📖 Ko'proq tayyorlanish kerak.",
		"load_failed":      "❌ Savollar yuklanmadi!",
	},
	"ru": {
		"start_message":    "👋 Здравствуйте! Добро пожаловать в авиационный тест-бот!",
		"choose_subject":   "📚 Выберите предмет:",
		"aviation":         "✈️ Авиация",
		"aviation_general": "🛩 Общая авиация",
		"meteorology":      "🌦 Метеорология",
		"navigation":       "🧭 Навигация",
		"choose_language":  "🌍 Сменить язык",
		"question":         "Вопрос",
		"correct_answers":  "Правильные ответы",
		"back":             "⬅️ Назад",
		"forward":          "➡️ Вперёд",
		"restart":          "🔄 Начать заново",
		"back_to_menu":     "🏠 Главное меню",
		"test_starting":    "📝 Тест начинается...",
		"correct_answer":   "✅ Правильно! 🎉",
		"wrong_answer":     "❌ Неправильно! Правильный ответ:",
		"test_completed":   "Тест завершён!",
		"final_result":     "Итоговый результат",
		"excellent":        "🏆 Отлично! Великолепные знания!",
		"good":             "👍 Хороший результат!",
		"satisfactory":     "🙂 Удовлетворительно. Продолжайте тренироваться!",
		"poor":             "📖 Нужно больше готовиться.",
		"load_failed":      "❌ Вопросы не загружены!",
	},
	"en": {
		"start_message":    "👋 Hello! Welcome to the aviation test bot!",
		"choose_subject":   "📚 Choose a subject:",
		"aviation":         "✈️ Aviation",
		"aviation_general": "🛩 General aviation",
		"meteorology":      "🌦 Meteorology",
		"navigation":       "🧭 Navigation",
		"choose_language":  "🌍 Change language",
		"question":         "Question",
		"correct_answers":  "Correct answers",
		"back":             "⬅️ Back",
		"forward":          "➡️ Forward",
		"restart":          "🔄 Restart",
		"back_to_menu":     "🏠 Main menu",
		"test_starting":    "📝 Test is starting...",
		"correct_answer":   "✅ Correct! 🎉",
		"wrong_answer":     "❌ Wrong! The correct answer is:",
		"test_completed":   "Test completed!",
		"final_result":     "Final result",
		"excellent":        "🏆 Excellent! Outstanding knowledge!",
		"good":             "👍 Good result!",
		"satisfactory":     "🙂 Satisfactory. Keep practicing!",
		"poor":             "📖 More preparation needed.",
		"load_failed":      "❌ Questions are not loaded!",
	},
}

func tr(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if s, ok := t[key]; ok {
			return s
		}
	}
	if s, ok := translations["uz"][key]; ok {
		return s
	}
	return key
}
