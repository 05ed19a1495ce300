package trello_tools

// setupInstructions is returned by trello_setup.
const setupInstructions = `Trello setup

1. Get your API key at https://trello.com/app-key
2. On the same page, follow the "Token" link and allow access to generate a token.
3. Open your board in the browser. The board ID is the part after /b/ in the URL,
   e.g. https://trello.com/b/AbCd1234/my-board has the ID AbCd1234.
4. Set the environment variables, or put the same keys (api_key, api_token,
   board_id, default_list_id) into the settings file passed with --config:

   TRELLO_API_KEY=<your API key>
   TRELLO_API_TOKEN=<your token>
   TRELLO_BOARD_ID=<board ID>
   TRELLO_DEFAULT_LIST_ID=<list ID>   (optional, used by trello_add_card)

5. Run trello_list_lists to find list IDs and trello_list_boards to see your other boards.`
