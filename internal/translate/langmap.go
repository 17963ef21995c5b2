package translate

// providerCodes maps internal locale codes to the codes the translation
// provider expects. Codes without an entry pass through unchanged.
var providerCodes = map[string]string{
	"zh": "zh-CN",
	"pt": "pt-PT",
}

// ProviderCode returns the provider-side language code for a locale.
func ProviderCode(locale string) string {
	if code, ok := providerCodes[locale]; ok {
		return code
	}
	return locale
}
