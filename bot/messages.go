package bot

// User-facing message texts.
const (
	msgWelcome = `🔍 **Kripto Radar Botu'na hoş geldin!** 🚀

Bu bot ile kripto para fiyatlarını takip edebilirsin:

📊 **Komutlar:**
• ` + "`/fiyat <coin>`" + ` - Belirli bir kripto paranın fiyatını öğren
• ` + "`/btc`" + ` - Bitcoin fiyatı
• ` + "`/eth`" + ` - Ethereum fiyatı
• ` + "`/top10`" + ` - En popüler 10 kripto para
• ` + "`/ara <isim>`" + ` - Kripto para ara
• ` + "`/yukselenler`" + ` - Son 1 saatin yükselenleri
• ` + "`/help`" + ` - Yardım menüsü

**Örnek:** ` + "`/fiyat bitcoin`" + ` veya ` + "`/fiyat btc`" + `

💡 **İpucu:** Sadece kripto para ismini yazarak da fiyat öğrenebilirsin!`

	msgHelp = `🆘 **Yardım Menüsü**

**Kullanılabilir Komutlar:**

🏠 /start - Botu yeniden başlat
📊 /fiyat <coin> - Kripto para fiyatını öğren
₿ /btc - Bitcoin fiyatı ve bilgileri
⟠ /eth - Ethereum fiyatı ve bilgileri
🔟 /top10 - Top 10 kripto para listesi
🔍 /ara <isim> - Kripto para ara
🚀 /yukselenler - Son 1 saatin yükselenleri

**Desteklenen Kripto Paralar:**
Bitcoin (BTC), Ethereum (ETH), Binance Coin (BNB),
XRP, Cardano (ADA), Solana (SOL), Dogecoin (DOGE),
Polkadot (DOT), Avalanche (AVAX), Litecoin (LTC)

**Örnek Kullanım:**
• bitcoin veya btc
• /fiyat ethereum
• /ara cardano`

	msgErrorAPI      = "⚠️ Şu anda kripto para verilerine ulaşılamıyor. Lütfen daha sonra tekrar deneyin."
	msgErrorNotFound = "❌ Bu kripto para bulunamadı. Lütfen geçerli bir kripto para ismi girin."
	msgProcessing    = "⏳ Veriler getiriliyor, lütfen bekleyin..."
	msgFetching      = "🔍 Fiyat bilgisi getiriliyor..."
	msgBusy          = "⏳ Zaten bir işlem devam ediyor, lütfen bekleyin..."

	msgPriceUsage = "❓ Hangi kripto paranın fiyatını öğrenmek istiyorsunuz?\n**Örnek:** `/fiyat bitcoin` veya `/fiyat btc`"
	msgAraUsage   = "❓ Hangi kripto parayı aramak istiyorsunuz?\n**Örnek:** `/ara cardano`"
)
