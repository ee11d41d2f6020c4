package generator

const systemPrompt = `You are a helpful assistant.`

const userPrompt = `Pick a random word related to nature, love, sea, forest, soul or body, and write a haiku about it. Make it beautiful, uplifting, and heartwarming. Return only the haiku, no other text.`
