package telegram

const (
	msgStart = `👋 Привет! Я оцениваю рекламные креативы до запуска.

🎨 Палитра — пришлите картинку, я выделю доминирующие цвета.
📈 Оценка — пришлите JSON-макет, я спрогнозирую внимание, CTR и баланс.
🧪 A/B — пришлите метрики вариантов, я предскажу победителя.

📋 Команды:
/palette — палитра изображения
/score — оценка макета
/abtest — прогноз A/B-теста
/industry — отрасль для бенчмарков CTR
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /palette и фото (или файл изображения)
2️⃣ /score и JSON-макет текстом или файлом:
{"width":1080,"height":1080,"layers":[{"id":"cta","type":"cta","x":315,"y":800,"width":450,"height":100,"text":"Shop now"}]}
3️⃣ /abtest и список вариантов:
[{"id":"A","ctrEstimate":3.0,"qualityScore":90,"balanceScore":70},{"id":"B","ctrEstimate":1.0,"qualityScore":60,"balanceScore":65}]

💡 Отрасль: /industry ecommerce (saas, fashion, tech, finance, health, education, realestate)

📋 Команды:
/palette /score /abtest /industry /cancel`

	msgAwaitingPhoto    = "📸 Отправьте изображение креатива."
	msgAwaitingLayout   = "🧩 Отправьте JSON-макет текстом или файлом."
	msgAwaitingVariants = "🧪 Отправьте JSON-список вариантов с метриками."
	msgCancelled        = "❌ Операция отменена. /help — список команд."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgUnexpected       = "🤔 Не понимаю, что с этим делать. Выберите команду: /palette, /score или /abtest."
	msgProcessing       = "⏳ Считаю..."
	msgBusy             = "⏳ Предыдущий запрос ещё обрабатывается."
	msgProcessingError  = "⚠️ Не удалось обработать запрос. Попробуйте ещё раз."
	msgImageError       = "⚠️ Не удалось прочитать изображение. Поддерживаются JPEG, PNG, GIF, BMP и WebP."
	msgIndustryUsage    = "Укажите отрасль: /industry ecommerce"
	msgIndustrySet      = "✅ Отрасль: %s"
	msgIndustryUnknown  = "⚠️ Отрасль %q не найдена, будут использованы средние значения."
	msgLayoutError      = "⚠️ Не удалось разобрать макет: %s"
	msgVariantsError    = "⚠️ Не удалось разобрать варианты: %s"
)
