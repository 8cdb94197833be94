package messages

var menuLabels = map[string]map[Action]string{
	"es": {
		MenuResellers:    "💼 Resellers",
		MenuClients:      "👥 Clientes",
		MenuPayments:     "💳 Pagos",
		MenuSettings:     "⚙️ Ajustes",
		MenuMyClients:    "👥 Mis clientes",
		MenuCreateClient: "➕ Crear cliente",
		MenuPay:          "💳 Pagar / Renovar",
		MenuBossSupport:  "📞 Soporte Boss",
		MenuMyPlan:       "📄 Mi plan",
		MenuToggle:       "⚙️ Provisionar",
		MenuSupport:      "📞 Soporte",
	},
	"en": {
		MenuResellers:    "💼 Resellers",
		MenuClients:      "👥 Clients",
		MenuPayments:     "💳 Payments",
		MenuSettings:     "⚙️ Settings",
		MenuMyClients:    "👥 My clients",
		MenuCreateClient: "➕ Create client",
		MenuPay:          "💳 Pay / Renew",
		MenuBossSupport:  "📞 Boss support",
		MenuMyPlan:       "📄 My plan",
		MenuToggle:       "⚙️ Service on/off",
		MenuSupport:      "📞 Support",
	},
}

var catalogs = map[string]map[Key]string{
	"es": {
		WelcomeGuest:    "🔒 <b>Acceso restringido.</b> Pide alta a tu reseller o escribe a soporte: {support}",
		WelcomeAdmin:    "👑 <b>Panel Boss</b>\nGestiona todo el sistema.",
		WelcomeReseller: "💼 <b>Panel Reseller</b>\nCrea y administra tus clientes.",
		WelcomeClient:   "🚀 <b>Tu Panel de Servicio</b>\n\n🔖 Plan: <b>{plan}</b>\n📅 Vence: <b>{expires}</b>\n🧭 ID: <code>{slug}</code>\n\n💡 Renueva a tiempo desde <b>💳 Pagar / Renovar</b>.",
		WelcomeClientNA: "👤 <b>Cliente</b>",

		NoPermission: "🔒 <b>Acceso denegado.</b> No tienes permisos para esta acción.",
		GenericError: "⚠️ Ocurrió un error. Intenta de nuevo más tarde.",
		NotAvailable: "N/D",

		OwnerSet:        "👑 <b>Owner establecido</b> (<code>{id}</code>). Todo bajo control.",
		ResellerCreated: "✅ Reseller <code>{rid}</code> activado en plan <b>{plan}</b> hasta {expires}. ¡A vender! 🏁",
		ContactSet:      "📞 Contacto de reseller <code>{rid}</code> actualizado a {contact}.",
		InvalidContact:  "❌ Contacto inválido. Usa un @usuario de 3 a 32 caracteres.",
		RateSet:         "💱 Tasa USD→CUP actualizada a {rate}.",
		InvalidRate:     "❌ La tasa debe ser un número positivo.",
		PriceSet:        "💵 Precio <code>{code}</code> actualizado a {value} USD.",
		InvalidPrice:    "❌ Precio inválido. Usa: /set_price res_b|res_p|res_e|c30|c90|c365 &lt;monto&gt;",
		UsageClientAdd:  "Uso: /client_add &lt;id cliente&gt; &lt;id reseller&gt;",

		ResellersTitle: "💼 <b>Resellers</b>",
		ResellersEmpty: "📭 No hay resellers aún.",
		ResellerLine:   "• {id} – {plan} – vence {expires} – {contact} – {clients} clientes",
		ClientsTitle:   "👥 <b>Clientes</b>",
		ClientsEmpty:   "📭 No hay clientes aún.",
		ClientLine:     "• <code>{slug}</code> – {owner} – reseller {rid} – vence {expires} – {status}",
		MyClientsTitle: "👥 <b>Tus clientes</b>",
		MyClientsEmpty: "📭 Aún no tienes clientes.",
		SettingsTitle:  "⚙️ <b>Ajustes</b>",
		SettingLine:    "• <code>{key}</code> = {value}",
		SettingsHint:   "\nUsa <code>/set_rate</code> y <code>/set_price</code> para cambiarlos.",
		PendingCount:   "⏳ Pagos pendientes: <b>{count}</b>",

		AskClientID:      "🆕 Envíame el <b>ID numérico</b> del cliente final:",
		InvalidID:        "❌ ID inválido. Debe ser un número (por ejemplo 123456789).",
		ClientCreated:    "✅ Cliente <code>{slug}</code> creado para reseller <code>{rid}</code>, vence {expires}. ¡A volar! ✈️",
		ClientExists:     "⚠️ Ese usuario ya tiene un cliente registrado.",
		ResellerLimit:    "⛔ <b>Límite alcanzado</b> ({limit} bots). Sube de plan para seguir creciendo 📈.",
		ResellerNotFound: "❌ Reseller no existe.",
		NotRegistered:    "No registrado.",

		MyPlan:         "📄 <b>Tu plan</b>\n🔖 Plan: <b>{plan}</b>\n📅 Vence: <b>{expires}</b>\n⚙️ Servicio: <b>{status}</b>\n🧭 ID: <code>{slug}</code>",
		MyPayments:     "\n🧾 <b>Tus últimos pagos</b>",
		MyPaymentLine:  "• {created} – {usd} USD – {plan} [{status}]",
		ServiceToggled: "⚙️ Servicio <code>{slug}</code>: <b>{status}</b>",
		SupportContact: "📞 Tu reseller: {contact}",
		SupportNone:    "📞 Tu reseller: N/D",
		BossContact:    "📞 <b>Contacto Boss:</b> {contact}",

		PayPick:        "💳 <b>¿Qué deseas pagar?</b>\n• Plan Reseller (Básico/Pro/Enterprise)\n• Renovar cliente (30/90/365)",
		PayPlansTitle:  "🏷 <b>Planes Reseller (USD / CUP)</b>",
		PayPlanLine:    "• {name}: {usd} / {local}",
		PayTermsTitle:  "🗓 <b>Renovar cliente</b> <code>{slug}</code>",
		PayTermLine:    "• {days} días: {usd} USD",
		PayPickClient:  "Elige el cliente a renovar:",
		NoClients:      "No tienes clientes.",
		PayMethod:      "💰 <b>Monto:</b> {usd} USD (<b>{local} CUP</b>)\n\nElige método de pago:",
		PayProrate:     "\n📐 Diferencia prorrateada por el periodo restante: {extra} USD",
		PayInstruction: "{txt}\n\nLuego pulsa <b>📤 Enviar comprobante</b> y sube la captura.",
		ReceiptPrompt:  "Adjunta la imagen del comprobante en el chat.",
		ReceiptRetry:   "📎 Adjunta una <b>imagen</b> del comprobante.",
		ReceiptOK:      "✅ <b>Comprobante recibido</b> (<code>{pid}</code>). El Boss revisará y aprobará.",
		ResellerOnly:   "Solo los resellers pueden pagar un plan reseller.",
		FlowExpired:    "Esta operación ya no está activa. Empieza de nuevo desde el menú.",

		AdminPending:      "🧾 Pago pendiente de <code>{uid}</code>: {usd} USD ({local} CUP) [{method}] – {plan} – item {item}\nID: <code>{pid}</code>\n/approve {pid}",
		PaymentsTitle:     "🧾 <b>Pagos recientes</b>",
		PaymentsEmpty:     "📭 Sin pagos.",
		PaymentLine:       "• <code>{id}</code> [{status}] – {usd} USD / {local} CUP – {role}/{method} – {plan} – item {item} – user {uid}",
		PaymentsHint:      "\nUsa: <code>/approve &lt;id&gt;</code> o <code>/reject &lt;id&gt; &lt;motivo&gt;</code>",
		Approved:          "✅ Aprobado: <code>{pid}</code>",
		Rejected:          "❌ Rechazado: <code>{pid}</code>",
		PaymentApproved:   "✅ Pago aprobado. ¡Gracias!",
		PaymentRejected:   "❌ Pago rechazado. Motivo: {reason}",
		DefaultReason:     "Sin motivo",
		PaymentNotFound:   "❌ No existe.",
		PaymentNotPending: "⚠️ No está pendiente.",

		ExpiresTomorrow: "⚠️ <b>Tu servicio '{slug}' vence mañana.</b> Renueva con <b>💳 Pagar / Renovar</b>.",
		Expired:         "🔴 <b>Tu servicio '{slug}' ha sido pausado por vencimiento.</b>",

		BtnResellerPlan: "Plan Reseller",
		BtnRenewClient:  "Renovar Cliente",
		BtnSendReceipt:  "📤 Enviar comprobante",
		BtnBack:         "« Atrás",
		BtnBalance:      "Saldo",
		BtnLocal:        "CUP",
		BtnOpenChat:     "💬 Abrir chat",
		BtnDays:         "{days} días",

		TierBasic:      "Básico",
		TierPro:        "Pro",
		TierEnterprise: "Enterprise",
	},
	"en": {
		WelcomeGuest:    "🔒 <b>Restricted access.</b> Ask your reseller for an account or contact support: {support}",
		WelcomeAdmin:    "👑 <b>Boss panel</b>\nManage the whole system.",
		WelcomeReseller: "💼 <b>Reseller panel</b>\nCreate and manage your clients.",
		WelcomeClient:   "🚀 <b>Your service panel</b>\n\n🔖 Plan: <b>{plan}</b>\n📅 Expires: <b>{expires}</b>\n🧭 ID: <code>{slug}</code>\n\n💡 Renew on time from <b>💳 Pay / Renew</b>.",
		WelcomeClientNA: "👤 <b>Client</b>",

		NoPermission: "🔒 <b>Access denied.</b> You are not allowed to do this.",
		GenericError: "⚠️ Something went wrong. Please try again later.",
		NotAvailable: "N/A",

		OwnerSet:        "👑 <b>Owner set</b> (<code>{id}</code>).",
		ResellerCreated: "✅ Reseller <code>{rid}</code> active on plan <b>{plan}</b> until {expires}.",
		ContactSet:      "📞 Contact of reseller <code>{rid}</code> set to {contact}.",
		InvalidContact:  "❌ Invalid contact. Use a @username of 3 to 32 characters.",
		RateSet:         "💱 USD→CUP rate set to {rate}.",
		InvalidRate:     "❌ The rate must be a positive number.",
		PriceSet:        "💵 Price <code>{code}</code> set to {value} USD.",
		InvalidPrice:    "❌ Invalid price. Use: /set_price res_b|res_p|res_e|c30|c90|c365 &lt;amount&gt;",
		UsageClientAdd:  "Usage: /client_add &lt;client id&gt; &lt;reseller id&gt;",

		ResellersTitle: "💼 <b>Resellers</b>",
		ResellersEmpty: "📭 No resellers yet.",
		ResellerLine:   "• {id} – {plan} – expires {expires} – {contact} – {clients} clients",
		ClientsTitle:   "👥 <b>Clients</b>",
		ClientsEmpty:   "📭 No clients yet.",
		ClientLine:     "• <code>{slug}</code> – {owner} – reseller {rid} – expires {expires} – {status}",
		MyClientsTitle: "👥 <b>Your clients</b>",
		MyClientsEmpty: "📭 You have no clients yet.",
		SettingsTitle:  "⚙️ <b>Settings</b>",
		SettingLine:    "• <code>{key}</code> = {value}",
		SettingsHint:   "\nUse <code>/set_rate</code> and <code>/set_price</code> to change them.",
		PendingCount:   "⏳ Pending payments: <b>{count}</b>",

		AskClientID:      "🆕 Send me the <b>numeric ID</b> of the end client:",
		InvalidID:        "❌ Invalid ID. It must be a number (for example 123456789).",
		ClientCreated:    "✅ Client <code>{slug}</code> created for reseller <code>{rid}</code>, expires {expires}.",
		ClientExists:     "⚠️ That user already has a client.",
		ResellerLimit:    "⛔ <b>Limit reached</b> ({limit} bots). Upgrade your plan to keep growing 📈.",
		ResellerNotFound: "❌ Reseller does not exist.",
		NotRegistered:    "Not registered.",

		MyPlan:         "📄 <b>Your plan</b>\n🔖 Plan: <b>{plan}</b>\n📅 Expires: <b>{expires}</b>\n⚙️ Service: <b>{status}</b>\n🧭 ID: <code>{slug}</code>",
		MyPayments:     "\n🧾 <b>Your latest payments</b>",
		MyPaymentLine:  "• {created} – {usd} USD – {plan} [{status}]",
		ServiceToggled: "⚙️ Service <code>{slug}</code>: <b>{status}</b>",
		SupportContact: "📞 Your reseller: {contact}",
		SupportNone:    "📞 Your reseller: N/A",
		BossContact:    "📞 <b>Boss contact:</b> {contact}",

		PayPick:        "💳 <b>What do you want to pay?</b>\n• Reseller plan (Basic/Pro/Enterprise)\n• Client renewal (30/90/365)",
		PayPlansTitle:  "🏷 <b>Reseller plans (USD / CUP)</b>",
		PayPlanLine:    "• {name}: {usd} / {local}",
		PayTermsTitle:  "🗓 <b>Renew client</b> <code>{slug}</code>",
		PayTermLine:    "• {days} days: {usd} USD",
		PayPickClient:  "Pick the client to renew:",
		NoClients:      "You have no clients.",
		PayMethod:      "💰 <b>Amount:</b> {usd} USD (<b>{local} CUP</b>)\n\nChoose a payment method:",
		PayProrate:     "\n📐 Prorated difference for the remaining period: {extra} USD",
		PayInstruction: "{txt}\n\nThen press <b>📤 Send receipt</b> and upload the screenshot.",
		ReceiptPrompt:  "Attach the receipt image in the chat.",
		ReceiptRetry:   "📎 Attach an <b>image</b> of the receipt.",
		ReceiptOK:      "✅ <b>Receipt received</b> (<code>{pid}</code>). The boss will review it.",
		ResellerOnly:   "Only resellers can pay for a reseller plan.",
		FlowExpired:    "This operation is no longer active. Start again from the menu.",

		AdminPending:      "🧾 Pending payment from <code>{uid}</code>: {usd} USD ({local} CUP) [{method}] – {plan} – item {item}\nID: <code>{pid}</code>\n/approve {pid}",
		PaymentsTitle:     "🧾 <b>Recent payments</b>",
		PaymentsEmpty:     "📭 No payments.",
		PaymentLine:       "• <code>{id}</code> [{status}] – {usd} USD / {local} CUP – {role}/{method} – {plan} – item {item} – user {uid}",
		PaymentsHint:      "\nUse: <code>/approve &lt;id&gt;</code> or <code>/reject &lt;id&gt; &lt;reason&gt;</code>",
		Approved:          "✅ Approved: <code>{pid}</code>",
		Rejected:          "❌ Rejected: <code>{pid}</code>",
		PaymentApproved:   "✅ Payment approved. Thank you!",
		PaymentRejected:   "❌ Payment rejected. Reason: {reason}",
		DefaultReason:     "No reason given",
		PaymentNotFound:   "❌ Not found.",
		PaymentNotPending: "⚠️ Not pending.",

		ExpiresTomorrow: "⚠️ <b>Your service '{slug}' expires tomorrow.</b> Renew with <b>💳 Pay / Renew</b>.",
		Expired:         "🔴 <b>Your service '{slug}' was paused because it expired.</b>",

		BtnResellerPlan: "Reseller plan",
		BtnRenewClient:  "Renew client",
		BtnSendReceipt:  "📤 Send receipt",
		BtnBack:         "« Back",
		BtnBalance:      "Balance",
		BtnLocal:        "CUP",
		BtnOpenChat:     "💬 Open chat",
		BtnDays:         "{days} days",

		TierBasic:      "Basic",
		TierPro:        "Pro",
		TierEnterprise: "Enterprise",
	},
}
