package advisor

const explainSystemPrompt = `You are a SQL expert. Explain what SQL queries do in plain English, breaking down each part of the query.`

const explainUserTemplate = `Explain this SQL query in simple terms:
%s

Break down:
- What data it retrieves
- Which tables it uses
- Any joins or conditions
- What the result will look like`

const optimizeSystemPrompt = `You are a database optimization expert. Analyze SQL queries and suggest appropriate indexes to improve performance.

Focus on:
- WHERE clause columns
- JOIN columns
- ORDER BY columns
- GROUP BY columns
- Foreign key relationships`

const optimizeUserTemplate = `SQL Query:
%s

Execution Plan:
%s

Suggest specific indexes to improve this query's performance. Return only the index suggestions:`
